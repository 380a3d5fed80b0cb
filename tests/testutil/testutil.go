// Package testutil carries shared helpers for the storefront test
// suites: a sqlmock-backed GORM handle, gin context scaffolding,
// deterministic IDs and polling assertions.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB pairs a GORM handle with the sqlmock driving it.
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB opens a GORM connection over sqlmock using the postgres
// dialector. The underlying connection is closed via t.Cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock setup failed")
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "gorm open failed")

	return &MockDB{DB: gormDB, Mock: mock}
}

// Done asserts every expectation registered on the mock was consumed.
func (m *MockDB) Done(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "unmet database expectations")
}

// TestContext bundles a gin context with its response recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext builds a gin test context carrying a GET / request.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithRequest(t, http.MethodGet, "/", nil)
}

// NewTestContextWithRequest builds a gin test context around the given
// request. When req is nil a bodyless request is synthesized from
// method and path.
func NewTestContextWithRequest(t *testing.T, method, path string, req *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	if req == nil {
		req = httptest.NewRequest(method, path, nil)
	}
	c.Request = req

	return &TestContext{Context: c, Recorder: w, Engine: engine}
}

// SetRequestID stores a request ID on the context.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("X-Request-ID", id)
}

// SetUserID stores the authenticated user ID under the key the JWT
// middleware uses.
func (tc *TestContext) SetUserID(id string) {
	tc.Context.Set("jwt_user_id", id)
}

// SetRole stores the authenticated role under the key the JWT
// middleware uses.
func (tc *TestContext) SetRole(role string) {
	tc.Context.Set("jwt_role", role)
}

// SetHeader sets a request header.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the recorded response body.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the recorded status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// storefront test namespace, fixed so seeded UUIDs stay stable.
var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// UUIDFromSeed derives a reproducible UUID from a seed string.
func UUIDFromSeed(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// TestUserID returns the canonical customer ID used across suites.
func TestUserID() uuid.UUID {
	return UUIDFromSeed("test-user")
}

// TestAdminID returns the canonical admin ID used across suites.
func TestAdminID() uuid.UUID {
	return UUIDFromSeed("test-admin")
}

// WaitFor polls condition until it returns true or the timeout lapses,
// reporting whether the condition was met.
func WaitFor(condition func() bool, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}

// Eventually fails the test when condition does not become true within
// the timeout.
func Eventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()
	if !WaitFor(condition, timeout, interval) {
		require.Fail(t, "condition not met within timeout", msgAndArgs...)
	}
}

// Never fails the test when condition becomes true at any point within
// the duration.
func Never(t *testing.T, condition func() bool, duration, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if condition() {
			require.Fail(t, "condition unexpectedly became true", msgAndArgs...)
		}
		time.Sleep(interval)
	}
}
