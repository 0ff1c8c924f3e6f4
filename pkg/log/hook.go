package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// silentFormatter 아무런 동작도 하지 않는 포맷터입니다.
// Logrus는 출력이 io.Discard여도 포맷팅 연산을 수행하므로 이를 막기 위해 사용합니다.
// 실제 포맷팅은 routingHook에서 한 번만 수행됩니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}

// routingHook 로그 레벨에 따라 로그를 여러 채널로 분배하는 Hook입니다.
//
// 라우팅 정책:
//   - ERROR 이상: Critical 채널에 격리 저장 후 Main 채널에도 기록
//   - INFO/WARN: Main 채널에 기록
//   - DEBUG/TRACE: Verbose 채널에만 기록 (운영 로그 오염 방지)
//   - Console 채널이 설정된 경우 모든 레벨을 그대로 출력
type routingHook struct {
	mainWriter     io.Writer // 운영 상태와 에러를 기록하는 메인 채널 (INFO 이상)
	criticalWriter io.Writer // 치명적 장애를 별도로 보존하는 채널 (ERROR 이상)
	verboseWriter  io.Writer // 디버깅 정보를 기록하는 채널 (DEBUG/TRACE)
	consoleWriter  io.Writer // 모든 레벨을 실시간으로 출력하는 표준 출력

	formatter Formatter

	mu     sync.RWMutex // 로그 기록(RLock)과 종료 처리(Lock) 간의 동시성 제어
	closed bool         // true일 경우 모든 로그 기록 요청을 무시
}

// Levels 이 Hook이 수신할 로그 레벨의 집합을 반환합니다.
func (h *routingHook) Levels() []Level {
	return AllLevels
}

// Fire 발생한 로그 이벤트를 수신하여 레벨별 라우팅 정책에 따라 각 Writer로 기록합니다.
func (h *routingHook) Fire(entry *Entry) error {
	// RLock으로 동시 로깅을 허용하되, 기록 도중 Hook이 닫히지 않도록 보호합니다.
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	// 포맷팅은 한 번만 수행하고 모든 채널에서 재사용합니다.
	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error

	// 콘솔 출력 실패는 전체 로깅 가용성에 영향을 주지 않도록 에러를 전파하지 않습니다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 콘솔 출력 쓰기 실패: %v\n", err)
		}
	}

	// ERROR 이상은 장애 대응을 위해 별도 파일에 격리 저장합니다.
	// 여기서 쓰기에 실패해도 메인 로그 기록은 계속 진행합니다.
	if entry.Level <= ErrorLevel && h.criticalWriter != nil {
		if _, err := h.criticalWriter.Write(msg); err != nil {
			firstErr = err
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Critical 로그 파일 쓰기 실패: %v\n", err)
		}
	}

	// DEBUG/TRACE는 Verbose 채널에만 기록하고 종료합니다.
	// 상세 로그가 메인 운영 로그로 넘어가지 않도록 여기서 반환합니다.
	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] Verbose 로그 파일 쓰기 실패: %v\n", err)
			}
		}

		return firstErr
	}

	// INFO 이상은 Critical 기록 성공 여부와 무관하게 메인 채널에 기록합니다.
	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Main 로그 파일 쓰기 실패: %v\n", err)
		}
	}

	return firstErr
}

// Close Hook을 종료 상태로 전환하여 이후의 로그 기록을 차단합니다.
func (h *routingHook) Close() error {
	// Lock 획득 시점에 진행 중이던 모든 Fire(RLock)가 끝날 때까지 대기합니다.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
