package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/handlers"
	"github.com/SscSPs/finance_manager/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// testServices bundles the mocks behind one router.
type testServices struct {
	category    *MockCategoryService
	transaction *MockTransactionService
	budget      *MockBudgetService
	bankBalance *MockBankBalanceService
	account     *MockAccountService
	reporting   *MockReportingService
	database    *MockDatabase
}

func newTestServices() *testServices {
	return &testServices{
		category:    new(MockCategoryService),
		transaction: new(MockTransactionService),
		budget:      new(MockBudgetService),
		bankBalance: new(MockBankBalanceService),
		account:     new(MockAccountService),
		reporting:   new(MockReportingService),
		database:    new(MockDatabase),
	}
}

func (s *testServices) container() *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Category:    s.category,
		Transaction: s.transaction,
		Budget:      s.budget,
		BankBalance: s.bankBalance,
		Account:     s.account,
		Reporting:   s.reporting,
		Database:    s.database,
	}
}

// newTestRouter wires the real routes over the mocks.
func newTestRouter(s *testServices, resetRate string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers.RegisterRoutes(router, &config.Config{ResetRateLimit: resetRate}, s.container())
	return router
}

func registerWith(router *gin.Engine, container *portssvc.ServiceContainer) {
	handlers.RegisterRoutes(router, &config.Config{ResetRateLimit: "5-M"}, container)
}

// perform sends a request through the router. A non-nil body is sent as JSON.
func perform(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		default:
			raw, _ = json.Marshal(b)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.10:4321"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMap(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}
