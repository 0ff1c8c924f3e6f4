package analysis

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/result"
	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
)

// SupportedExtensions 분석 가능한 이미지 파일 확장자 목록입니다.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage 파일명의 확장자가 분석 가능한 이미지 형식인지 확인합니다.
func IsSupportedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(SupportedExtensions, ext)
}

// ErrorResult 분석에 실패한 이미지에 대해 결과 파일에 기록되는 내용입니다.
type ErrorResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ImagePath string `json:"image_path,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResult 실패한 분석에 대한 ErrorResult를 생성합니다.
func NewErrorResult(err error, imagePath string) *ErrorResult {
	return &ErrorResult{
		Success:   false,
		Error:     err.Error(),
		ImagePath: imagePath,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// FileResult 디렉토리 일괄 분석에서 이미지 파일 하나의 분석 결과입니다.
type FileResult struct {
	ImagePath string
	Result    *result.AnalysisResult
	Err       error
}

// AnalyzeFile 이미지 파일 하나를 읽어 분석합니다.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*result.AnalysisResult, error) {
	if !IsSupportedImage(path) {
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 파일 형식입니다: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "이미지 파일을 읽을 수 없습니다")
	}

	return a.Analyze(ctx, data)
}

// AnalyzeDir 디렉토리 안의 모든 지원 이미지 파일을 순서대로 분석합니다.
//
// 개별 이미지의 분석 실패는 해당 FileResult의 Err에 담겨 반환되며,
// 나머지 이미지의 분석은 계속 진행됩니다. 컨텍스트가 취소되면 남은
// 이미지는 건너뜁니다.
func (a *Analyzer) AnalyzeDir(ctx context.Context, dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "디렉토리를 읽을 수 없습니다")
	}

	var results []FileResult
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() || !IsSupportedImage(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		applog.WithComponentAndFields(component, applog.Fields{
			"image": entry.Name(),
		}).Info("이미지 분석 시작")

		res, err := a.AnalyzeFile(ctx, path)
		results = append(results, FileResult{
			ImagePath: path,
			Result:    res,
			Err:       err,
		})
	}

	return results, nil
}

// ResultFilename 이미지 파일 경로로부터 분석 결과 JSON 파일명을 만듭니다.
func ResultFilename(imagePath string) string {
	base := filepath.Base(imagePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strcase.ToSnake(name) + "_analysis.json"
}
