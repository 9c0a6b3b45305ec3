package auth

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UserContext is the caller of a request: a signed-in person, or automation
// holding the API key.
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	// Token is the raw bearer token; empty for API key access
	Token     string
	ExpiresAt time.Time
	system    bool
}

// SystemUserID identifies automation callers authenticated with the API key
var SystemUserID = uuid.Nil

// NewSystemContext returns the caller used for API key requests and background jobs
func NewSystemContext() *UserContext {
	return &UserContext{
		UserID:      SystemUserID,
		DisplayName: "System",
		Email:       "system@odo.local",
		system:      true,
	}
}

type userContextKey struct{}

func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey{}).(*UserContext)
	return user, ok && user != nil
}

// IsSystem reports whether the caller is automation rather than a person
func (u *UserContext) IsSystem() bool {
	return u.system
}

// Initials shows in the avatar: the first letter of each word of the display
// name ("Ana Souza" -> "AS"), or the first letter of the email.
func (u *UserContext) Initials() string {
	words := strings.Fields(u.DisplayName)
	if len(words) == 0 {
		if u.Email == "" {
			return ""
		}
		words = []string{u.Email}
	}

	var b strings.Builder
	for _, word := range words {
		if r, _ := utf8.DecodeRuneInString(word); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
