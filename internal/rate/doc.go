// Package rate implements the login throttle: a sliding failed-attempt
// counter per client address with temporary blocks, used to blunt
// brute-force attacks. It is independent of the token and revocation
// machinery and holds its state in process.
package rate
