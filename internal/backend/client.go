package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talonbot/internal/config"
	"talonbot/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	// ErrRegistrationFailed — бэкенд не принял регистрацию (статус != 201).
	ErrRegistrationFailed = errors.New("registration rejected by backend")

	// ErrTicketFailed — бэкенд не создал талон (статус != 201).
	ErrTicketFailed = errors.New("ticket creation rejected by backend")
)

// HTTPError — неуспешный статус от бэкенда с телом ответа.
type HTTPError struct {
	URL  string
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend request %s failed with status %d: %s", e.URL, e.Code, e.Body)
}

// Client — тонкий REST-клиент бэкенда госуслуг. Реализует
// domain.UserDirectory, domain.CatalogSource и domain.TicketOffice.
// Ни один метод не делает повторных попыток: неуспех отдаётся вызывающему,
// пользователь может просто отправить сообщение ещё раз.
type Client struct {
	cfg     config.BackendConfig
	cl      *http.Client
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

func NewClient(cfg config.BackendConfig, logger *zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		cl: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:  logger,
	}
}

// IsRegistered проверяет регистрацию пользователя: только статус 200
// означает «зарегистрирован», любой другой исход отдаётся как ошибка.
func (c *Client) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	_, err := c.invoke(ctx, "check_user", http.MethodGet, c.cfg.UserCheckURL+strconv.FormatInt(telegramID, 10), nil, http.StatusOK)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Register заводит пользователя в бэкенде. Успех — только 201.
func (c *Client) Register(ctx context.Context, telegramID int64) error {
	payload, err := json.Marshal(models.RegistrationRequest{TelegramID: telegramID})
	if err != nil {
		return err
	}

	if _, err := c.invoke(ctx, "register_user", http.MethodPost, c.cfg.UserRegisterURL, payload, http.StatusCreated); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Errorf("%w: status %d", ErrRegistrationFailed, httpErr.Code)
		}
		return err
	}
	return nil
}

// LoadMenu загружает группы услуг вместе с операциями.
func (c *Client) LoadMenu(ctx context.Context) ([]models.Group, error) {
	body, err := c.invoke(ctx, "load_menu", http.MethodGet, c.cfg.MenuURL, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var groups []models.Group
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("decode menu response: %w", err)
	}
	return groups, nil
}

// LoadDepartments загружает список отделений целиком.
func (c *Client) LoadDepartments(ctx context.Context) ([]models.Department, error) {
	body, err := c.invoke(ctx, "load_departments", http.MethodGet, c.cfg.DepartmentsURL, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var departments []models.Department
	if err := json.Unmarshal(body, &departments); err != nil {
		return nil, fmt.Errorf("decode departments response: %w", err)
	}
	return departments, nil
}

// CreateTicket создаёт талон и возвращает его ID. Успех — только 201.
func (c *Client) CreateTicket(ctx context.Context, req models.TicketRequest) (int64, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	body, err := c.invoke(ctx, "create_ticket", http.MethodPost, c.cfg.TicketURL, payload, http.StatusCreated)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return 0, fmt.Errorf("%w: status %d", ErrTicketFailed, httpErr.Code)
		}
		return 0, err
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return 0, fmt.Errorf("decode ticket response: %w", err)
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("%w: response has no ticket id", ErrTicketFailed)
	}
	return created.ID, nil
}

// GetTicket читает детали талона по ID.
func (c *Client) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	url := strings.TrimRight(c.cfg.TicketURL, "/") + "/" + strconv.FormatInt(id, 10)
	body, err := c.invoke(ctx, "get_ticket", http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var ticket models.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket response: %w", err)
	}
	return &ticket, nil
}

func (c *Client) invoke(ctx context.Context, call, method, url string, body []byte, wantStatus int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("backend rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, url, err)
	}
	req.Header.Set(c.cfg.SecretHeader, c.cfg.Secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", url).Msg("backend request")

	resp, err := c.cl.Do(req)
	if err != nil {
		observeCall(call, "network_error")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != wantStatus {
		observeCall(call, "error")
		c.logger.Debug().Str("call", call).Str("url", url).Int("status", resp.StatusCode).Msg("backend unexpected status")
		return nil, &HTTPError{
			URL:  url,
			Code: resp.StatusCode,
			Body: string(respBody),
		}
	}

	observeCall(call, "ok")
	return respBody, nil
}
