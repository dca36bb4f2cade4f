package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	validId := uuid.New()

	tests := []struct {
		name    string
		claim   interface{}
		want    uuid.UUID
		wantErr bool
	}{
		{name: "valid claim", claim: validId.String(), want: validId},
		{name: "missing claim", claim: nil, wantErr: true},
		{name: "non-string claim", claim: 42, wantErr: true},
		{name: "malformed uuid", claim: "not-a-uuid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotId uuid.UUID
			var gotErr error

			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				if tt.claim != nil {
					ctx.Locals("user_id", tt.claim)
				}
				gotId, gotErr = UserID(ctx)
				return nil
			})

			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			if tt.wantErr {
				require.ErrorIs(t, gotErr, fiber.ErrUnauthorized)
				assert.Equal(t, uuid.Nil, gotId)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, gotId)
		})
	}
}
