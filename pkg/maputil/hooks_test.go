package maputil

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToSliceHook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		trimSpace bool
		input     any
		target    any // 디코딩 대상 타입의 샘플 값
		want      any
	}{
		{
			name:      "쉼표로 구분된 문자열 분리",
			trimSpace: true,
			input:     "jpg,jpeg,png",
			target:    []string{},
			want:      []string{"jpg", "jpeg", "png"},
		},
		{
			name:      "요소 앞뒤 공백 제거",
			trimSpace: true,
			input:     "  jpg ,  jpeg  , png  ",
			target:    []string{},
			want:      []string{"jpg", "jpeg", "png"},
		},
		{
			name:      "trimSpace 비활성화 시 공백 보존",
			trimSpace: false,
			input:     "  jpg ,  jpeg  ",
			target:    []string{},
			want:      []string{"  jpg ", "  jpeg  "},
		},
		{
			name:      "단일 값",
			trimSpace: true,
			input:     "https://typhoon.darkkaiser.com",
			target:    []string{},
			want:      []string{"https://typhoon.darkkaiser.com"},
		},
		{
			name:      "빈 문자열은 빈 슬라이스",
			trimSpace: true,
			input:     "",
			target:    []string{},
			want:      []string{},
		},
		{
			name:      "공백만 있는 문자열은 빈 슬라이스",
			trimSpace: true,
			input:     "   ",
			target:    []string{},
			want:      []string{},
		},
		{
			name:      "끝에 붙은 쉼표는 빈 요소 생성",
			trimSpace: true,
			input:     "a,b,",
			target:    []string{},
			want:      []string{"a", "b", ""},
		},
		{
			name:      "숫자 슬라이스 대상도 문자열로 분리 후 위임",
			trimSpace: true,
			input:     "1, 20, 300",
			target:    []int{},
			// 훅은 []string까지만 만들고 숫자 변환은 mapstructure가 수행한다.
			want: []string{"1", "20", "300"},
		},
		{
			name:      "문자열이 아닌 입력은 통과",
			trimSpace: true,
			input:     12345,
			target:    []string{},
			want:      12345,
		},
		{
			name:      "[]byte 대상은 분리하지 않고 통과",
			trimSpace: true,
			input:     "binary,data",
			target:    []byte{},
			want:      "binary,data",
		},
		{
			name:      "[N]byte 대상도 분리하지 않고 통과",
			trimSpace: true,
			input:     "1234",
			target:    [4]byte{},
			want:      "1234",
		},
		{
			name:      "슬라이스가 아닌 대상은 통과",
			trimSpace: true,
			input:     "a,b",
			target:    struct{}{},
			want:      "a,b",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hook := stringToSliceHookFunc(tt.trimSpace)
			hookFunc := hook.(func(reflect.Type, reflect.Type, any) (any, error))

			got, err := hookFunc(reflect.TypeOf(tt.input), reflect.TypeOf(tt.target), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringToDurationHook(t *testing.T) {
	t.Parallel()

	type aliasDuration time.Duration

	tests := []struct {
		name   string
		input  any
		target any
		want   any
	}{
		{
			name:   "표준 시간 문자열",
			input:  "60s",
			target: time.Duration(0),
			want:   time.Minute,
		},
		{
			name:   "밀리초 단위",
			input:  "300ms",
			target: time.Duration(0),
			want:   300 * time.Millisecond,
		},
		{
			name:   "0은 단위 없이도 허용",
			input:  "0",
			target: time.Duration(0),
			want:   time.Duration(0),
		},
		{
			name:   "음수 시간",
			input:  "-5m",
			target: time.Duration(0),
			want:   -5 * time.Minute,
		},
		{
			name:   "소수점 시간",
			input:  "1.5h",
			target: time.Duration(0),
			want:   90 * time.Minute,
		},
		{
			name:   "앞뒤 공백 허용",
			input:  "  5m  ",
			target: time.Duration(0),
			want:   5 * time.Minute,
		},
		{
			name:   "파싱 불가능한 문자열은 통과",
			input:  "invalid-time",
			target: time.Duration(0),
			want:   "invalid-time",
		},
		{
			name:   "Duration 별칭 타입은 엄격 검사로 통과",
			input:  "10s",
			target: aliasDuration(0),
			want:   "10s",
		},
		{
			name:   "문자열이 아닌 입력은 통과",
			input:  123,
			target: time.Duration(0),
			want:   123,
		},
		{
			name:   "일반 int64 대상은 통과",
			input:  "10s",
			target: int64(0),
			want:   "10s",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hook := stringToDurationHookFunc()
			hookFunc := hook.(func(reflect.Type, reflect.Type, any) (any, error))

			got, err := hookFunc(reflect.TypeOf(tt.input), reflect.TypeOf(tt.target), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringToBytesHook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		trimSpace bool
		input     any
		target    any
		want      any
		wantErr   bool
		errMatch  string
	}{
		{
			name:      "base64 접두사가 있으면 디코딩",
			trimSpace: true,
			input:     "base64:SGVsbG8=", // "Hello"
			target:    []byte{},
			want:      []byte("Hello"),
		},
		{
			name:      "접두사 주변 공백은 항상 무시",
			trimSpace: false,
			input:     "  base64:SGVsbG8=  ",
			target:    []byte{},
			want:      []byte("Hello"),
		},
		{
			name:      "잘못된 base64 내용은 에러",
			trimSpace: true,
			input:     "base64:!!!INVALID!!!",
			target:    []byte{},
			wantErr:   true,
			errMatch:  "base64",
		},
		{
			name:      "접두사가 없으면 원본 바이트 사용",
			trimSpace: true,
			input:     "SGVsbG8=",
			target:    []byte{},
			want:      []byte("SGVsbG8="),
		},
		{
			name:      "접두사는 소문자만 인식",
			trimSpace: true,
			input:     "BASE64:SGVsbG8=",
			target:    []byte{},
			want:      []byte("BASE64:SGVsbG8="),
		},
		{
			name:      "일반 문자열의 공백은 trimSpace 설정에 따라 제거",
			trimSpace: true,
			input:     "  val  ",
			target:    []byte{},
			want:      []byte("val"),
		},
		{
			name:      "trimSpace 비활성화 시 일반 문자열 공백 보존",
			trimSpace: false,
			input:     "  val  ",
			target:    []byte{},
			want:      []byte("  val  "),
		},
		{
			name:      "[N]byte 대상도 변환",
			trimSpace: true,
			input:     "1234",
			target:    [4]byte{},
			want:      []byte("1234"),
		},
		{
			name:      "문자열이 아닌 입력은 통과",
			trimSpace: true,
			input:     123,
			target:    []byte{},
			want:      123,
		},
		{
			name:      "[]byte 계열이 아닌 대상은 통과",
			trimSpace: true,
			input:     "base64:SGVsbG8=",
			target:    []string{},
			want:      "base64:SGVsbG8=",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hook := stringToBytesHookFunc(tt.trimSpace)
			hookFunc := hook.(func(reflect.Type, reflect.Type, any) (any, error))

			got, err := hookFunc(reflect.TypeOf(tt.input), reflect.TypeOf(tt.target), tt.input)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMatch != "" {
					assert.Contains(t, err.Error(), tt.errMatch)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// namedString 명명된 문자열 타입도 훅이 안전하게 처리하는지 확인하기 위한 타입
type namedString string

func TestHooksIntegration(t *testing.T) {
	t.Parallel()

	t.Run("명명된 문자열 타입도 분리 처리", func(t *testing.T) {
		input := map[string]any{
			"tags": namedString("a,b"),
		}
		type target struct {
			Tags []string `json:"tags"`
		}
		var got target
		err := DecodeTo(input, &got)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
	})

	t.Run("base64 디코딩 에러는 전파", func(t *testing.T) {
		input := map[string]any{
			"data": "base64:Broken",
		}
		type target struct {
			Data []byte `json:"data"`
		}
		var got target
		err := DecodeTo(input, &got)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "illegal base64 data")
	})

	t.Run("WithTrimSpace 설정이 []byte 변환에도 적용", func(t *testing.T) {
		input := map[string]any{
			"bytes": "  val  ",
		}
		type target struct {
			Bytes []byte `json:"bytes"`
		}

		var trimmed target
		require.NoError(t, DecodeTo(input, &trimmed))
		assert.Equal(t, []byte("val"), trimmed.Bytes, "기본값은 공백 제거")

		var raw target
		require.NoError(t, DecodeTo(input, &raw, WithTrimSpace(false)))
		assert.Equal(t, []byte("  val  "), raw.Bytes, "WithTrimSpace(false)는 공백 보존")
	})

	t.Run("일반 int64 필드는 시간 훅의 영향을 받지 않음", func(t *testing.T) {
		type data struct {
			Count int64 `json:"count"`
		}
		input := map[string]any{
			"count": "10s",
		}

		var got data
		err := DecodeTo(input, &got)

		require.Error(t, err, "시간 훅 없이 '10s'를 int64로 변환할 수 없어야 함")
	})

	t.Run("time.Duration 필드는 시간 문자열 지원", func(t *testing.T) {
		type config struct {
			Timeout time.Duration `json:"timeout"`
		}
		input := map[string]any{
			"timeout": "10s",
		}

		var got config
		err := DecodeTo(input, &got)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, got.Timeout)
	})
}
