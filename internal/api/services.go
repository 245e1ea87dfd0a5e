package api

import "github.com/notesapp/notes-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	Note     *service.NoteService
	Tag      *service.TagService
	Profile  *service.ProfileService
	Settings *service.SettingsService
}
