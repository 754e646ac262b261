// createadmin создаёт администратора напрямую в БД — регистрации
// админов через API нет.
package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"onerinn/internal/authz"
	"onerinn/internal/config"
)

func main() {
	login := flag.String("login", "", "логин администратора")
	email := flag.String("email", "", "email для восстановления пароля")
	password := flag.String("password", "", "пароль")
	role := flag.String("role", authz.RoleModerator, "роль: moderator | support | superadmin")
	flag.Parse()

	if *login == "" || *email == "" || *password == "" {
		log.Fatal("нужны -login, -email и -password")
	}
	switch *role {
	case authz.RoleModerator, authz.RoleSupport, authz.RoleSuperadmin:
	default:
		log.Fatalf("неизвестная роль %q", *role)
	}

	cfg := config.LoadConfig()
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Ошибка хэширования пароля: ", err)
	}

	const q = `
		INSERT INTO admin_accounts (email, username, password_hash, role, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id`
	var id int
	if err := db.QueryRow(q, *email, *login, string(hash), *role).Scan(&id); err != nil {
		log.Fatal("Ошибка создания администратора: ", err)
	}
	log.Printf("Администратор #%d (%s, роль %s) создан", id, *login, *role)
}
