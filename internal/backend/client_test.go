package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"talonbot/internal/config"
	"talonbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	cfg := config.BackendConfig{
		UserCheckURL:    srv.URL + "/api/users/",
		UserRegisterURL: srv.URL + "/api/users",
		MenuURL:         srv.URL + "/api/menu",
		DepartmentsURL:  srv.URL + "/api/departments",
		TicketURL:       srv.URL + "/api/tickets",
		Secret:          "test-secret",
		SecretHeader:    "X-Auth-Token",
		TimeoutSeconds:  5,
		RPS:             100,
		Burst:           100,
	}
	return NewClient(cfg, &logger), srv
}

func TestClient_SendsSecretHeader(t *testing.T) {
	var gotSecret string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Auth-Token")
		_, _ = w.Write([]byte("[]"))
	}))

	_, err := client.LoadMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-secret", gotSecret)
}

func TestClient_IsRegistered(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"registered", http.StatusOK, true},
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
			}))

			got, err := client.IsRegistered(context.Background(), 12345)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "/api/users/12345", gotPath)
		})
	}
}

func TestClient_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var gotBody models.RegistrationRequest
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusCreated)
		}))

		err := client.Register(context.Background(), 777)
		require.NoError(t, err)
		assert.Equal(t, int64(777), gotBody.TelegramID)
	})

	t.Run("rejected", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))

		err := client.Register(context.Background(), 777)
		assert.ErrorIs(t, err, ErrRegistrationFailed)
	})
}

func TestClient_LoadMenu(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Паспортные услуги","operations":[{"id":10,"name":"Замена паспорта"}]}]`))
	}))

	groups, err := client.LoadMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Паспортные услуги", groups[0].Name)
	require.Len(t, groups[0].Operations, 1)
	assert.Equal(t, int64(10), groups[0].Operations[0].ID)
}

func TestClient_LoadMenuError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.LoadMenu(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)
}

func TestClient_LoadDepartments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"address":"ул. Ленина, 12","availableOperationGroups":[{"id":1,"name":"Паспортные услуги"}]}]`))
	}))

	departments, err := client.LoadDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "ул. Ленина, 12", departments[0].Address)
	assert.True(t, departments[0].Supports(1))
}

func TestClient_CreateTicket(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var gotReq models.TicketRequest
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":99}`))
		}))

		req := models.TicketRequest{
			TelegramID:    123,
			AppointedTime: "2024-03-01T10:00:00Z",
			OperationID:   10,
			DepartmentID:  7,
		}
		id, err := client.CreateTicket(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(99), id)
		assert.Equal(t, req, gotReq)
	})

	t.Run("rejected", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))

		_, err := client.CreateTicket(context.Background(), models.TicketRequest{})
		assert.ErrorIs(t, err, ErrTicketFailed)
	})

	t.Run("missing id", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		}))

		_, err := client.CreateTicket(context.Background(), models.TicketRequest{})
		assert.ErrorIs(t, err, ErrTicketFailed)
	})
}

func TestClient_GetTicket(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":99,"operation":{"name":"Замена паспорта"},"department":{"address":"ул. Ленина, 12"},"appointedTime":"2024-03-01T10:00:00Z"}`))
	}))

	ticket, err := client.GetTicket(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, "/api/tickets/99", gotPath)
	assert.Equal(t, int64(99), ticket.ID)
	assert.Equal(t, "Замена паспорта", ticket.Operation.Name)
}

func TestClient_NetworkError(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClient(config.BackendConfig{
		MenuURL:        "http://127.0.0.1:1/api/menu",
		SecretHeader:   "X-Auth-Token",
		TimeoutSeconds: 1,
		RPS:            100,
		Burst:          100,
	}, &logger)

	_, err := client.LoadMenu(context.Background())
	assert.Error(t, err)
}
