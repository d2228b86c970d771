package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/florafolio/florafolio"
	"github.com/florafolio/florafolio/password"
)

type usersFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Email    string `yaml:"email"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

// seedUsers creates the accounts listed in the YAML file, skipping any that
// already exist. A missing file is not an error; seeding is optional.
func seedUsers(ctx context.Context, store florafolio.UserStore, hasher *password.Argon2, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, entry := range uf.Users {
		if entry.Username == "" || entry.Password == "" {
			continue
		}

		exists, err := store.ExistsByUsername(ctx, entry.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		role := florafolio.Role(strings.ToUpper(entry.Role))
		if !role.Valid() {
			role = florafolio.RoleUser
		}

		hash, err := hasher.Hash(entry.Password)
		if err != nil {
			return err
		}
		if _, err := store.Save(ctx, &florafolio.User{
			ID:           uuid.New(),
			Username:     entry.Username,
			PasswordHash: hash,
			Email:        entry.Email,
			Role:         role,
		}); err != nil {
			return err
		}
	}
	return nil
}
