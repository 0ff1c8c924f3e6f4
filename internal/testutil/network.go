// Package testutil 통합 테스트에서 공용으로 사용하는 보조 기능을 제공합니다.
package testutil

import (
	"fmt"
	"net"
	"time"
)

// pollInterval 서버 기동 확인 시 접속을 재시도하는 간격입니다.
const pollInterval = 10 * time.Millisecond

// GetFreePort OS가 할당해주는 사용 가능한 TCP 포트 번호를 반환합니다.
//
// 반환 직후 리스너를 닫으므로 호출자가 바인딩하기 전에 다른 프로세스가
// 선점할 가능성이 이론상 존재하지만, 테스트 용도로는 충분합니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("임시 리스너 생성 실패: %w", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer 지정된 포트에서 서버가 접속을 받을 때까지 대기합니다.
// 타임아웃 안에 접속하지 못하면 에러를 반환합니다.
func WaitForServer(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	addr := fmt.Sprintf("localhost:%d", port)

	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, pollInterval)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(pollInterval)
	}

	return fmt.Errorf("%v 안에 포트 %d에서 서버가 기동되지 않았습니다", timeout, port)
}
