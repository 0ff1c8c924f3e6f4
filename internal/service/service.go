// Package service 서버를 구성하는 개별 서비스들의 공통 생명주기 계약을 정의합니다.
//
// 각 서비스(API 서버, 분석 이력 관리, 알림 전송 등)는 Service 인터페이스를
// 구현하며, main 패키지에서 일괄적으로 시작되고 종료 신호를 전달받습니다.
package service

import (
	"context"
	"sync"
)

// Service 고루틴으로 실행되는 장기 실행 서비스의 생명주기 인터페이스입니다.
//
// Start는 즉시 반환되어야 하며, 실제 작업은 별도의 고루틴에서 수행됩니다.
// 서비스는 serviceStopCtx가 취소되면 정리 작업을 수행한 후
// serviceStopWG.Done()을 호출하여 종료 완료를 알립니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
