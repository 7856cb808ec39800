package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinearc/cinearc-api/internal/repository"
)

func newBasketHandler(t *testing.T) (*BasketHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBasketHandler(repository.NewBasketRepo(db), repository.NewSessionRepo(db)), mock
}

// authedRequest builds an Echo context carrying the user_id claim the JWT
// middleware would have stored.
func authedRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(1))
	c.Set("role", "CUSTOMER")
	return c, rec
}

func TestBasketAddRejectsZeroQuantity(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectQuery("SELECT 1 FROM sessions").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	c, rec := authedRequest(http.MethodPost, "/v1/basket", `{"session_id":5,"quantity":0}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasketAddUnknownSession(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectQuery("SELECT 1 FROM sessions").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	c, rec := authedRequest(http.MethodPost, "/v1/basket", `{"session_id":99,"quantity":2}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasketAddCreatesRow(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectQuery("SELECT 1 FROM sessions").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid").
		WithArgs(uint64(1), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "session_id", "quantity", "paid"}))
	mock.ExpectExec("INSERT INTO baskets").
		WithArgs(uint64(1), uint64(5), uint32(2)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	c, rec := authedRequest(http.MethodPost, "/v1/basket", `{"session_id":5,"quantity":2}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasketAddPaidConflict(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectQuery("SELECT 1 FROM sessions").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid").
		WithArgs(uint64(1), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "session_id", "quantity", "paid"}).
			AddRow(11, 1, 5, 2, true))
	mock.ExpectRollback()

	c, rec := authedRequest(http.MethodPost, "/v1/basket", `{"session_id":5,"quantity":1}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasketAddUnauthenticated(t *testing.T) {
	h, _ := newBasketHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/basket", strings.NewReader(`{"session_id":5,"quantity":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasketIncreaseUnknownBasket(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid").
		WithArgs(uint64(7), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "session_id", "quantity", "paid"}))
	mock.ExpectRollback()

	c, rec := authedRequest(http.MethodPost, "/v1/basket/7/increase", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Increase(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasketIncreaseAddsOne(t *testing.T) {
	h, mock := newBasketHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid").
		WithArgs(uint64(7), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "session_id", "quantity", "paid"}).
			AddRow(7, 1, 5, 2, false))
	mock.ExpectExec("UPDATE baskets SET quantity").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := authedRequest(http.MethodPost, "/v1/basket/7/increase", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Increase(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
