package main

import "onerinn/internal/app"

// @title           Onerinn API
// @version         1.0
// @description     Маркетплейс искусства и электроники: аутентификация, объявления, выплаты, админка
// @BasePath        /
func main() {
	app.Run()
}
