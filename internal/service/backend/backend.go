package backend

import (
	"log/slog"
	"time"
	"unicode"

	"CampusChat/internal/config"
	"CampusChat/internal/lib/sl"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

// Service talks to the platform's REST API: message history, user search,
// send, conversation list and the session user.
type Service struct {
	http     *resty.Client
	validate *validator.Validate
	log      *slog.Logger
}

func NewBackendService(conf *config.Config, logger *slog.Logger) *Service {
	client := resty.New().
		SetBaseURL(conf.Backend.BaseURL).
		SetTimeout(time.Duration(conf.Backend.Timeout) * time.Second)
	if conf.Backend.Token != "" {
		client.SetAuthToken(conf.Backend.Token)
	}

	validate := validator.New()
	validate.RegisterValidation("lettersspace", lettersSpace)

	return &Service{
		http:     client,
		validate: validate,
		log:      logger.With(sl.Module("backend service")),
	}
}

// lettersSpace accepts unicode letters and whitespace only, so search
// works for names in any script.
func lettersSpace(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
