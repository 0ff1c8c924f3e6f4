package log

import (
	"errors"
	"io"
	"sync/atomic"
)

// closer 로깅 시스템이 사용하는 파일 리소스의 해제를 통합 관리합니다.
//
//   - Close()는 여러 번 호출해도 안전하며 두 번째 호출부터는 즉시 nil을 반환합니다.
//   - 닫힌 파일에 대한 쓰기 시도를 막기 위해 Hook을 먼저 비활성화합니다.
//   - 일부 파일 닫기에 실패해도 나머지 파일의 해제를 계속 시도합니다.
type closer struct {
	closers []io.Closer

	hook *routingHook

	// 중복 Close() 호출 방지용 플래그 (0: open, 1: closed)
	closed int32
}

func (c *closer) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil // 이미 닫힘
	}

	// 파일을 닫기 전에 로그 유입부터 차단합니다.
	if c.hook != nil {
		_ = c.hook.Close()
	}

	var errs error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}

		// 메모리에 잔류하는 로그가 디스크에 기록되도록 닫기 전에 Sync()를 호출합니다.
		if s, ok := cl.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}

		if err := cl.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
