package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsDir é o diretório das migrações dentro do FS embutido.
const MigrationsDir = "migrations"

// Migrate aplica as migrações embutidas no binário.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("falha ao configurar dialeto do goose: %w", err)
	}
	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return fmt.Errorf("falha ao aplicar migrações: %w", err)
	}
	return nil
}

// RunGoose executa um comando do goose; dir vazio usa as migrações embutidas.
func RunGoose(ctx context.Context, db *sql.DB, command, dir string, args ...string) error {
	if dir == "" {
		goose.SetBaseFS(migrations)
		defer goose.SetBaseFS(nil)
		dir = MigrationsDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, dir, args...)
}
