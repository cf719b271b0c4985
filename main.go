package main

import "todosync/internal/app"

func main() {
	app.Run()
}
