package system

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/version"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/constants"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/model/system"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// mockHealthChecker HealthChecker 인터페이스의 테스트용 Mock
type mockHealthChecker struct {
	mock.Mock
}

func (m *mockHealthChecker) Health() error {
	args := m.Called()
	return args.Error(0)
}

// setupSystemHandlerTest 테스트에 필요한 Handler와 의존성을 설정합니다.
// 테스트 격리를 위해 매번 새로운 인스턴스를 생성합니다.
func setupSystemHandlerTest(t *testing.T) (*Handler, *mockHealthChecker, *mockHealthChecker, *echo.Echo) {
	t.Helper()

	mockEngine := new(mockHealthChecker)
	mockStore := new(mockHealthChecker)
	buildInfo := version.Info{
		Version:     "1.0.0",
		BuildDate:   "2024-01-01",
		BuildNumber: "100",
	}

	h := NewHandler(mockEngine, mockStore, buildInfo)
	e := echo.New()

	return h, mockEngine, mockStore, e
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공: 올바른 의존성으로 핸들러 생성", func(t *testing.T) {
		t.Parallel()
		mockEngine := new(mockHealthChecker)
		mockStore := new(mockHealthChecker)
		buildInfo := version.Info{Version: "1.0.0"}

		h := NewHandler(mockEngine, mockStore, buildInfo)

		assert.NotNil(t, h)
		assert.Equal(t, mockEngine, h.analysisEngine)
		assert.Equal(t, mockStore, h.historyStore)
		assert.Equal(t, buildInfo, h.buildInfo)
		assert.False(t, h.serverStartTime.IsZero(), "서버 시작 시간이 설정되어야 합니다")
		assert.WithinDuration(t, time.Now(), h.serverStartTime, 1*time.Second, "서버 시작 시간은 현재 시간과 비슷해야 합니다")
	})

	t.Run("성공: 이력 저장소 없이 핸들러 생성", func(t *testing.T) {
		t.Parallel()
		mockEngine := new(mockHealthChecker)

		h := NewHandler(mockEngine, nil, version.Info{Version: "1.0.0"})

		assert.NotNil(t, h)
		assert.Nil(t, h.historyStore)
	})

	t.Run("실패: 분석 엔진이 nil인 경우 Panic", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, constants.PanicMsgHealthCheckerRequired, func() {
			NewHandler(nil, nil, version.Info{Version: "1.0.0"})
		})
	})
}

// =============================================================================
// Status Tests
// =============================================================================

func TestHandler_StatusHandler(t *testing.T) {
	t.Parallel()

	h, _, _, e := setupSystemHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.StatusHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))

	var resp system.StatusResponse
	err = json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "태풍 안전 분석 API가 정상 작동중입니다", resp.Message)
}

// =============================================================================
// Health Check Tests
// =============================================================================

func TestHandler_HealthCheckHandler(t *testing.T) {
	t.Parallel()

	// 공통 검증 로직 Helper
	// 응답 지연시간은 환경에 따라 달라지므로 의존성 상태는 status/message만 비교합니다.
	assertHealthResponse := func(t *testing.T, rec *httptest.ResponseRecorder, expectedStatus string, expectedDeps map[string]system.DependencyStatus) {
		t.Helper()

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))

		var resp system.HealthResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.Equal(t, expectedStatus, resp.Status)
		assert.GreaterOrEqual(t, resp.Uptime, int64(0)) // Uptime은 0 이상

		require.Len(t, resp.Dependencies, len(expectedDeps))
		for name, expected := range expectedDeps {
			actual, ok := resp.Dependencies[name]
			require.True(t, ok, "의존성 %s이(가) 응답에 포함되어야 합니다", name)
			assert.Equal(t, expected.Status, actual.Status)
			assert.Equal(t, expected.Message, actual.Message)
			assert.GreaterOrEqual(t, actual.LatencyMs, int64(0))
		}
	}

	tests := []struct {
		name         string
		setupMocks   func(engine *mockHealthChecker, store *mockHealthChecker)
		withoutStore bool // 이력 저장소 없이 핸들러 생성
		verify       func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "성공: 모든 의존성 정상 (Healthy)",
			setupMocks: func(engine *mockHealthChecker, store *mockHealthChecker) {
				engine.On("Health").Return(nil)
				store.On("Health").Return(nil)
			},
			verify: func(t *testing.T, rec *httptest.ResponseRecorder) {
				expectedDeps := map[string]system.DependencyStatus{
					constants.DependencyAnalysisEngine: {
						Status:  constants.HealthStatusHealthy,
						Message: constants.MsgDepStatusHealthy,
					},
					constants.DependencyHistoryStore: {
						Status:  constants.HealthStatusHealthy,
						Message: constants.MsgDepStatusHealthy,
					},
				}
				assertHealthResponse(t, rec, constants.HealthStatusHealthy, expectedDeps)
			},
		},
		{
			name: "실패: 분석 엔진 장애 (Unhealthy)",
			setupMocks: func(engine *mockHealthChecker, store *mockHealthChecker) {
				engine.On("Health").Return(errors.New("Gemini API 키가 설정되지 않았습니다"))
				store.On("Health").Return(nil)
			},
			verify: func(t *testing.T, rec *httptest.ResponseRecorder) {
				expectedDeps := map[string]system.DependencyStatus{
					constants.DependencyAnalysisEngine: {
						Status:  constants.HealthStatusUnhealthy,
						Message: "Gemini API 키가 설정되지 않았습니다",
					},
					constants.DependencyHistoryStore: {
						Status:  constants.HealthStatusHealthy,
						Message: constants.MsgDepStatusHealthy,
					},
				}
				assertHealthResponse(t, rec, constants.HealthStatusUnhealthy, expectedDeps)
			},
		},
		{
			name: "실패: 이력 저장소 장애 (Unhealthy)",
			setupMocks: func(engine *mockHealthChecker, store *mockHealthChecker) {
				engine.On("Health").Return(nil)
				store.On("Health").Return(errors.New("데이터베이스 연결 실패"))
			},
			verify: func(t *testing.T, rec *httptest.ResponseRecorder) {
				expectedDeps := map[string]system.DependencyStatus{
					constants.DependencyAnalysisEngine: {
						Status:  constants.HealthStatusHealthy,
						Message: constants.MsgDepStatusHealthy,
					},
					constants.DependencyHistoryStore: {
						Status:  constants.HealthStatusUnhealthy,
						Message: "데이터베이스 연결 실패",
					},
				}
				assertHealthResponse(t, rec, constants.HealthStatusUnhealthy, expectedDeps)
			},
		},
		{
			name:         "성공: 이력 저장소 비활성화 시 점검 대상에서 제외",
			withoutStore: true,
			setupMocks: func(engine *mockHealthChecker, store *mockHealthChecker) {
				engine.On("Health").Return(nil)
			},
			verify: func(t *testing.T, rec *httptest.ResponseRecorder) {
				expectedDeps := map[string]system.DependencyStatus{
					constants.DependencyAnalysisEngine: {
						Status:  constants.HealthStatusHealthy,
						Message: constants.MsgDepStatusHealthy,
					},
				}
				assertHealthResponse(t, rec, constants.HealthStatusHealthy, expectedDeps)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockEngine := new(mockHealthChecker)
			mockStore := new(mockHealthChecker)
			if tt.setupMocks != nil {
				tt.setupMocks(mockEngine, mockStore)
			}

			var h *Handler
			if tt.withoutStore {
				h = NewHandler(mockEngine, nil, version.Info{Version: "1.0.0"})
			} else {
				h = NewHandler(mockEngine, mockStore, version.Info{Version: "1.0.0"})
			}
			e := echo.New()

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.HealthCheckHandler(c)
			assert.NoError(t, err)
			tt.verify(t, rec)

			mockEngine.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

// =============================================================================
// Version Info Tests
// =============================================================================

func TestHandler_VersionHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		buildInfo version.Info
		verify    func(t *testing.T, resp system.VersionResponse)
	}{
		{
			name: "성공: 정상 버전 정보 반환",
			buildInfo: version.Info{
				Version:     "1.0.0",
				BuildDate:   "2024-01-01",
				BuildNumber: "100",
			},
			verify: func(t *testing.T, resp system.VersionResponse) {
				assert.Equal(t, "1.0.0", resp.Version)
				assert.Equal(t, "2024-01-01", resp.BuildDate)
				assert.Equal(t, "100", resp.BuildNumber)
				assert.Equal(t, runtime.Version(), resp.GoVersion)
			},
		},
		{
			name:      "성공: 빈 버전 정보 반환 (Zero Values)",
			buildInfo: version.Info{}, // Empty
			verify: func(t *testing.T, resp system.VersionResponse) {
				assert.Equal(t, "", resp.Version)
				assert.Equal(t, "", resp.BuildDate)
				assert.Equal(t, "", resp.BuildNumber)
				assert.Equal(t, runtime.Version(), resp.GoVersion)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockEngine := new(mockHealthChecker)

			h := NewHandler(mockEngine, nil, tt.buildInfo)
			e := echo.New()

			req := httptest.NewRequest(http.MethodGet, "/version", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.VersionHandler(c)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))

			var resp system.VersionResponse
			err = json.Unmarshal(rec.Body.Bytes(), &resp)
			require.NoError(t, err)

			tt.verify(t, resp)

			// Health 호출이 없어야 하므로 기대 설정 없이 검증
			mockEngine.AssertExpectations(t)
		})
	}
}
