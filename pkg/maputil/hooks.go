package maputil

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// base64Prefix 문자열을 Base64로 해석하도록 지시하는 명시적 접두사입니다.
// 접두사 없이 모든 문자열을 Base64로 시도하면 "user" 같은 평범한 값이
// 깨진 바이너리로 변환될 수 있으므로 반드시 접두사를 요구합니다.
const base64Prefix = "base64:"

// isByteSliceTarget 디코딩 대상이 []byte 또는 [N]byte 계열인지 판별합니다.
func isByteSliceTarget(t reflect.Type) bool {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return false
	}
	return t.Elem().Kind() == reflect.Uint8
}

// stringToBytesHookFunc 문자열을 []byte로 변환하는 훅입니다.
//
// "base64:" 접두사가 있으면 Base64로 디코딩하고, 없으면 문자열의 바이트를
// 그대로 사용합니다. 접두사가 있는데 디코딩에 실패하면 입력 오류로 간주하여
// 에러를 반환합니다.
//
// 접두사 탐지는 trimSpace 설정과 무관하게 앞뒤 공백을 무시하며,
// trimSpace는 접두사가 없는 일반 문자열의 공백 보존 여부만 결정합니다.
func stringToBytesHookFunc(trimSpace bool) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || !isByteSliceTarget(t) {
			return data, nil
		}

		raw := reflect.ValueOf(data).String()
		trimmed := strings.TrimSpace(raw)

		if rest, found := strings.CutPrefix(trimmed, base64Prefix); found {
			decoded, err := base64.StdEncoding.DecodeString(rest)
			if err != nil {
				return nil, fmt.Errorf("base64 접두사가 포함된 잘못된 문자열입니다: %w", err)
			}
			return decoded, nil
		}

		if trimSpace {
			return []byte(trimmed), nil
		}
		return []byte(raw), nil
	}
}

// stringToSliceHookFunc 쉼표(,)로 구분된 문자열을 슬라이스로 변환하는 훅입니다.
//
// []byte 계열은 건드리지 않고 stringToBytesHookFunc에 맡깁니다. 문자열을
// 쪼개버리면 바이너리 데이터가 손상되기 때문입니다.
func stringToSliceHookFunc(trimSpace bool) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return data, nil
		}
		if isByteSliceTarget(t) {
			return data, nil
		}

		s := reflect.ValueOf(data).String()
		if s == "" {
			return []string{}, nil
		}
		if trimSpace && strings.TrimSpace(s) == "" {
			return []string{}, nil
		}

		parts := strings.Split(s, ",")
		if trimSpace {
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
		}
		return parts, nil
	}
}

// stringToDurationHookFunc "60s", "300ms" 같은 문자열을 time.Duration으로 변환하는 훅입니다.
//
// time.Duration의 별칭(Alias) 타입은 지원하지 않고, 정확히 time.Duration인
// 경우에만 변환합니다. int64 기반의 다른 타입이 시간으로 오해되는 것을
// 방지하기 위함입니다.
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != durationType {
			return data, nil
		}

		s := strings.TrimSpace(reflect.ValueOf(data).String())

		d, err := time.ParseDuration(s)
		if err != nil {
			// 파싱에 실패하면 다른 훅이나 기본 변환 로직에 맡긴다.
			return data, nil
		}

		return d, nil
	}
}
