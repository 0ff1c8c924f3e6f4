// Package validation 환경설정과 CLI 입력값에 대한 공통 유효성 검사 함수를 제공합니다.
package validation

import (
	"net/url"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	"github.com/darkkaiser/typhoon-safety-server/pkg/cronx"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// ValidateFileExists 파일 존재 여부를 검사합니다.
// warnOnly가 true면 경고만 출력하고 에러는 반환하지 않습니다.
func ValidateFileExists(path string, warnOnly bool) error {
	if path == "" {
		return nil // 빈 경로는 검사하지 않음
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			errMsg := apperrors.Newf(apperrors.NotFound, "파일이 존재하지 않습니다: %s", path)
			if warnOnly {
				applog.WithComponentAndFields("validation", log.Fields{
					"file_path": path,
				}).Warn(errMsg.Error())
				return nil
			}
			return errMsg
		}
		return apperrors.Wrapf(err, apperrors.System, "파일 접근 오류: %s", path)
	}
	if fi.IsDir() {
		return apperrors.Newf(apperrors.InvalidInput, "파일이 아닌 디렉토리입니다: %s", path)
	}
	return nil
}

// ValidateDirExists 디렉토리 존재 여부를 검사합니다.
func ValidateDirExists(path string) error {
	if path == "" {
		return apperrors.New(apperrors.InvalidInput, "디렉토리 경로가 비어 있습니다")
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.Newf(apperrors.NotFound, "디렉토리가 존재하지 않습니다: %s", path)
		}
		return apperrors.Wrapf(err, apperrors.System, "디렉토리 접근 오류: %s", path)
	}
	if !fi.IsDir() {
		return apperrors.Newf(apperrors.InvalidInput, "디렉토리가 아닌 파일입니다: %s", path)
	}
	return nil
}

// ValidateRobfigCronExpression Cron 표현식의 유효성을 검사합니다.
//
// 초 단위를 포함하는 6필드 형식과 @daily 등의 특수 표현식을 허용합니다.
func ValidateRobfigCronExpression(spec string) error {
	if err := cronx.Validate(spec); err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "잘못된 Cron 표현식입니다: %s", spec)
	}
	return nil
}

// ValidateCORSOrigin CORS Origin 값의 유효성을 검사합니다.
//
// 와일드카드("*") 또는 "스키마://호스트[:포트]" 형식만 허용하며,
// 경로·쿼리 문자열이 포함된 Origin은 거부합니다.
func ValidateCORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return apperrors.New(apperrors.InvalidInput, "CORS Origin이 비어 있습니다")
	}
	if origin == "*" {
		return nil
	}

	u, err := url.Parse(origin)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "잘못된 CORS Origin입니다: %s", origin)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.Newf(apperrors.InvalidInput, "CORS Origin은 http 또는 https 스키마만 허용됩니다: %s", origin)
	}
	if u.Host == "" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return apperrors.Newf(apperrors.InvalidInput, "CORS Origin은 '스키마://호스트[:포트]' 형식이어야 합니다: %s", origin)
	}
	return nil
}
