package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Example() {
	// 실제 환경에서는 -ldflags로 주입된 변수를 사용합니다.
	buildInfo := Info{
		Version:     "v1.2.3",
		BuildDate:   "2025-01-01T00:00:00Z",
		BuildNumber: "100",
	}

	// 전역 설정 (앱 시작 시 1회 호출)
	Set(buildInfo)

	// 어디서든 안전하게 조회 가능
	current := Get()
	fmt.Printf("App Version: %s\n", current.Version)
	fmt.Printf("Build Number: %s\n", current.BuildNumber)

	// Output:
	// App Version: v1.2.3
	// Build Number: 100
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Info
		want  string
	}{
		{
			name: "모든 필드가 채워진 경우",
			input: Info{
				Version:     "v1.0.0",
				BuildDate:   "2025-01-01",
				BuildNumber: "1",
				GoVersion:   "go1.24",
				OS:          "linux",
				Arch:        "amd64",
			},
			want: "v1.0.0 (build: 1, date: 2025-01-01, go_version: go1.24, os: linux, arch: amd64)",
		},
		{
			name: "커밋 해시는 7자로 축약",
			input: Info{
				Version: "v1.0.0",
				Commit:  "f25b8bfdeadbeef",
			},
			want: "v1.0.0 (commit: f25b8bf)",
		},
		{
			name: "Dirty 빌드는 버전에 +dirty 표기",
			input: Info{
				Version:    "v1.0.0",
				DirtyBuild: true,
			},
			want: "v1.0.0+dirty",
		},
		{
			name:  "버전이 비어있으면 unknown",
			input: Info{},
			want:  "unknown",
		},
		{
			name: "unknown 값은 상세 정보에서 제외",
			input: Info{
				Version:   "v2.0.0",
				Commit:    unknown,
				BuildDate: unknown,
			},
			want: "v2.0.0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.input.String())
		})
	}
}

// TestSetGet Set이 전달받은 정보를 가공 없이 저장하는지 검증합니다.
// 런타임 정보 보강은 init()의 enrichBuildInfo에서만 수행됩니다.
func TestSetGet(t *testing.T) {
	// 전역 상태를 변경하므로 Parallel 불가
	original := Get()
	defer Set(original)

	input := Info{Version: "v9.9.9", BuildNumber: "42"}
	Set(input)

	got := Get()
	assert.Equal(t, "v9.9.9", got.Version)
	assert.Equal(t, "42", got.BuildNumber)
	assert.Empty(t, got.GoVersion, "Set은 런타임 정보를 보강하지 않아야 함")

	assert.Equal(t, "v9.9.9", Version())
}

func TestEnrichBuildInfo(t *testing.T) {
	// readBuildInfo를 교체하므로 Parallel 불가
	originalReader := readBuildInfo
	defer func() { readBuildInfo = originalReader }()

	t.Run("런타임 환경 값 자동 보강", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		got := enrichBuildInfo(Info{Version: "v1.0.0"})

		assert.Equal(t, runtime.Version(), got.GoVersion)
		assert.Equal(t, runtime.GOOS, got.OS)
		assert.Equal(t, runtime.GOARCH, got.Arch)
	})

	t.Run("누락된 버전 정보는 unknown으로 대체", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		got := enrichBuildInfo(Info{})

		assert.Equal(t, unknown, got.Version)
		assert.Equal(t, unknown, got.Commit)
	})

	t.Run("VCS 메타데이터로 빈 필드 보강", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "f25b8bfdeadbeef"},
					{Key: "vcs.time", Value: "2025-01-01T00:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		}

		got := enrichBuildInfo(Info{Version: "v1.0.0"})

		assert.Equal(t, "f25b8bfdeadbeef", got.Commit)
		assert.Equal(t, "2025-01-01T00:00:00Z", got.BuildDate)
		assert.True(t, got.DirtyBuild)
	})

	t.Run("ldflags로 주입된 값이 VCS 값보다 우선", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "should-not-win"},
					{Key: "vcs.time", Value: "1999-01-01T00:00:00Z"},
				},
			}, true
		}

		got := enrichBuildInfo(Info{
			Version:   "v1.0.0",
			Commit:    "injected",
			BuildDate: "2025-06-01T00:00:00Z",
		})

		assert.Equal(t, "injected", got.Commit)
		assert.Equal(t, "2025-06-01T00:00:00Z", got.BuildDate)
	})
}

func TestInfoJSON(t *testing.T) {
	t.Parallel()

	info := Info{
		Version:     "v1.0.0",
		BuildNumber: "123",
	}

	data, err := json.Marshal(info)
	assert.NoError(t, err)

	var decoded map[string]any
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)

	assert.Equal(t, "v1.0.0", decoded["version"])
	assert.Equal(t, "123", decoded["build_number"])
}

func TestInfoToMap(t *testing.T) {
	t.Parallel()

	m := Info{Version: "v1.0.0", OS: "linux", DirtyBuild: true}.ToMap()

	assert.Equal(t, "v1.0.0", m["version"])
	assert.Equal(t, "linux", m["os"])
	assert.Equal(t, true, m["dirty_build"])
}

// TestConcurrentAccess 다수의 고루틴이 동시에 Set/Get을 호출해도 안전한지 검증합니다.
// go test -race 플래그와 함께 실행되어야 효과적입니다.
func TestConcurrentAccess(t *testing.T) {
	const (
		numReaders = 100
		numWriters = 10
		iterations = 1000
	)

	original := Get()
	defer Set(original)

	var wg sync.WaitGroup
	wg.Add(numReaders + numWriters)

	Set(Info{Version: "initial"})

	// Writers: 간헐적으로 버전을 업데이트
	for i := 0; i < numWriters; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				Set(Info{
					Version:     fmt.Sprintf("v1.%d.%d", id, j),
					BuildNumber: fmt.Sprintf("%d", j),
				})
				runtime.Gosched()
			}
		}(i)
	}

	// Readers: 지속적으로 버전을 조회
	for i := 0; i < numReaders; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				info := Get()
				_ = info.String()
			}
		}()
	}

	wg.Wait()
}

// BenchmarkGet 전역 버전 정보 조회 성능을 측정합니다.
func BenchmarkGet(b *testing.B) {
	Set(Info{
		Version:     "v1.0.0",
		BuildDate:   "2025-01-01",
		BuildNumber: "12345",
	})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = Get()
		}
	})
}
