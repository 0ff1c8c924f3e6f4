package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Constants
// =============================================================================

var errStd = errors.New("standard error")

// =============================================================================
// benchmarks
// =============================================================================

func BenchmarkNew(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = New(Internal, "error message")
	}
}

func BenchmarkWrap(b *testing.B) {
	err := errors.New("base error")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Wrap(err, Internal, "wrapped message")
	}
}

func BenchmarkRootCause(b *testing.B) {
	// 깊은 에러 체인 생성
	err := errors.New("root")
	for i := 0; i < 50; i++ {
		err = Wrap(err, Internal, "wrap")
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RootCause(err)
	}
}

func BenchmarkIs(b *testing.B) {
	// 깊은 에러 체인 생성
	err := New(NotFound, "not found")
	for i := 0; i < 10; i++ {
		err = Wrap(err, Internal, "wrap")
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Is(err, NotFound)
	}
}

// =============================================================================
// Basic Error Creation Tests
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		errType ErrorType
		message string
	}{
		{
			name:    "InvalidInput",
			errType: InvalidInput,
			message: "지원하지 않는 파일 형식입니다",
		},
		{
			name:    "Internal",
			errType: Internal,
			message: "internal error",
		},
		{
			name:    "Empty Message",
			errType: NotFound,
			message: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.errType, tt.message)

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.True(t, Is(err, tt.errType))
		})
	}
}

func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(InvalidInput, "지원하지 않는 확장자: %s", ".gif")

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "지원하지 않는 확장자: .gif")
	assert.True(t, Is(err, InvalidInput))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cause        error
		wrapType     ErrorType
		wrapMessage  string
		expectNil    bool
		expectInWrap string
	}{
		{
			name:         "표준 에러 래핑",
			cause:        errStd,
			wrapType:     ExecutionFailed,
			wrapMessage:  "이미지 분석 실패",
			expectInWrap: "standard error",
		},
		{
			name:         "AppError 래핑",
			cause:        New(ParsingFailed, "JSON 파싱 실패"),
			wrapType:     ExecutionFailed,
			wrapMessage:  "분석 응답 처리 실패",
			expectInWrap: "JSON 파싱 실패",
		},
		{
			name:      "nil 에러 래핑은 nil 반환",
			cause:     nil,
			wrapType:  Internal,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.cause, tt.wrapType, tt.wrapMessage)

			if tt.expectNil {
				assert.Nil(t, err)
				return
			}

			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.wrapMessage)
			assert.Contains(t, err.Error(), tt.expectInWrap)
			assert.True(t, Is(err, tt.wrapType))
		})
	}
}

func TestWrapf(t *testing.T) {
	t.Parallel()

	err := Wrapf(errStd, ExecutionFailed, "재시도 %d회 모두 실패", 3)

	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "재시도 3회 모두 실패")
	assert.Contains(t, err.Error(), "standard error")
}

func TestWrapf_NilError(t *testing.T) {
	t.Parallel()

	err := Wrapf(nil, Internal, "should be nil: %d", 1)
	assert.Nil(t, err)
}

// =============================================================================
// Error Chain Traversal Tests
// =============================================================================

func TestIs(t *testing.T) {
	t.Parallel()

	err := New(Timeout, "분석 요청 시간 초과")

	assert.True(t, Is(err, Timeout))
	assert.False(t, Is(err, NotFound))
	assert.False(t, Is(nil, Timeout))
	assert.False(t, Is(errStd, Timeout))
}

func TestIs_ChainTraversal(t *testing.T) {
	t.Parallel()

	// InvalidInput → ExecutionFailed → Internal 순서로 래핑된 체인
	err := New(InvalidInput, "빈 이미지 파일")
	err = Wrap(err, ExecutionFailed, "분석 실패")
	err = Wrap(err, Internal, "요청 처리 실패")

	// 체인에 포함된 모든 타입이 검출되어야 함
	assert.True(t, Is(err, InvalidInput))
	assert.True(t, Is(err, ExecutionFailed))
	assert.True(t, Is(err, Internal))
	assert.False(t, Is(err, Timeout))
}

func TestAs(t *testing.T) {
	t.Parallel()

	err := Wrap(errStd, System, "파일 읽기 실패")

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, System, appErr.Type())
	assert.Equal(t, "파일 읽기 실패", appErr.Message())

	// 표준 에러에서는 AppError를 찾을 수 없음
	var appErr2 *AppError
	assert.False(t, As(errStd, &appErr2))
}

func TestRootCause(t *testing.T) {
	t.Parallel()

	t.Run("표준 에러가 Root인 경우", func(t *testing.T) {
		err := Wrap(Wrap(errStd, System, "레벨 1"), Internal, "레벨 2")
		assert.Equal(t, errStd, RootCause(err))
	})

	t.Run("AppError가 Root인 경우", func(t *testing.T) {
		root := New(NotFound, "이미지 파일 없음")
		err := Wrap(root, Internal, "레벨 1")
		assert.Equal(t, root, RootCause(err))
	})

	t.Run("nil 에러", func(t *testing.T) {
		assert.Nil(t, RootCause(nil))
	})
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	inner := New(ParsingFailed, "파싱 실패")
	outer := Wrap(inner, ExecutionFailed, "분석 실패")

	var appErr *AppError
	require.True(t, As(outer, &appErr))
	assert.Equal(t, inner, appErr.Unwrap())

	// Root 에러의 Unwrap은 nil
	var rootErr *AppError
	require.True(t, As(inner, &rootErr))
	assert.Nil(t, rootErr.Unwrap())
}

func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "단일 AppError",
			err:      New(InvalidInput, "잘못된 입력"),
			expected: InvalidInput,
		},
		{
			name:     "AppError 체인은 가장 안쪽 타입 반환",
			err:      Wrap(New(Timeout, "시간 초과"), ExecutionFailed, "분석 실패"),
			expected: Timeout,
		},
		{
			name:     "외부 에러를 감싼 경우 감싼 타입 반환",
			err:      Wrap(errStd, ParsingFailed, "응답 파싱 실패"),
			expected: ParsingFailed,
		},
		{
			name:     "표준 에러만 있는 경우 Unknown",
			err:      errStd,
			expected: Unknown,
		},
		{
			name:     "nil 에러는 Unknown",
			err:      nil,
			expected: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnderlyingType(tt.err))
		})
	}
}

// =============================================================================
// Formatting Tests
// =============================================================================

func TestAppError_Format(t *testing.T) {
	t.Parallel()

	t.Run("%s 포맷", func(t *testing.T) {
		err := New(NotFound, "이미지 파일 없음")
		s := fmt.Sprintf("%s", err)
		assert.Contains(t, s, "[NotFound]")
		assert.Contains(t, s, "이미지 파일 없음")
	})

	t.Run("%q 포맷", func(t *testing.T) {
		err := New(NotFound, "이미지 파일 없음")
		s := fmt.Sprintf("%q", err)
		assert.True(t, strings.HasPrefix(s, `"`))
		assert.True(t, strings.HasSuffix(s, `"`))
	})

	t.Run("%+v 포맷은 스택 트레이스 포함", func(t *testing.T) {
		err := New(Internal, "내부 오류")
		s := fmt.Sprintf("%+v", err)
		assert.Contains(t, s, "Stack trace:")
		assert.Contains(t, s, "errors_test.go")
	})

	t.Run("%+v 포맷은 에러 체인 출력", func(t *testing.T) {
		err := Wrap(errStd, System, "파일 읽기 실패")
		s := fmt.Sprintf("%+v", err)
		assert.Contains(t, s, "Caused by:")
		assert.Contains(t, s, "standard error")
	})

	t.Run("AppError 체인 중간 단계에서는 스택 미출력", func(t *testing.T) {
		inner := New(ParsingFailed, "파싱 실패")
		outer := Wrap(inner, ExecutionFailed, "분석 실패")
		s := fmt.Sprintf("%+v", outer)

		// 스택은 Root(inner)에서 한 번만 출력되어야 함
		assert.Equal(t, 1, strings.Count(s, "Stack trace:"))
	})
}

// =============================================================================
// Edge Case Tests
// =============================================================================

func TestEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("빈 메시지", func(t *testing.T) {
		err := New(Internal, "")
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "[Internal]")
	})

	t.Run("Is에 존재하지 않는 타입", func(t *testing.T) {
		err := New(Internal, "오류")
		assert.False(t, Is(err, ErrorType(999)))
	})

	t.Run("Stack 호출 시 복사본이 아닌 내부 슬라이스 반환 여부", func(t *testing.T) {
		err := New(Internal, "오류")
		var appErr *AppError
		require.True(t, As(err, &appErr))
		assert.NotEmpty(t, appErr.Stack())
	})
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestConcurrentErrorCreation(t *testing.T) {
	t.Parallel()

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			err := Newf(Internal, "고루틴 %d 오류", n)
			assert.NotNil(t, err)
			assert.True(t, Is(err, Internal))
		}(i)
	}

	wg.Wait()
}

func TestConcurrentErrorChainTraversal(t *testing.T) {
	t.Parallel()

	// 공유 에러 체인을 여러 고루틴에서 동시에 순회
	err := New(NotFound, "이미지 파일 없음")
	for i := 0; i < 10; i++ {
		err = Wrap(err, Internal, "래핑")
	}

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			assert.True(t, Is(err, NotFound))
			assert.Equal(t, NotFound, UnderlyingType(err))
			assert.NotNil(t, RootCause(err))
		}()
	}

	wg.Wait()
}
