package main

import "tutorlink_backend/internal/app"

func main() {
	app.Run()
}
