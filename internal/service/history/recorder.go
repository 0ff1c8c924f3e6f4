package history

import (
	"context"
	"sync"
	"time"

	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
)

// recorderComponent Recorder 로깅용 컴포넌트 이름
const recorderComponent = "history.recorder"

const (
	// recordQueueSize 저장 대기 큐의 버퍼 크기입니다.
	// 큐가 가득 찬 상태에서 들어온 레코드는 유실됩니다(로그 기록).
	recordQueueSize = 256

	// insertTimeout 이력 한 건을 저장할 때 허용하는 최대 시간
	insertTimeout = 5 * time.Second
)

// Recorder 분석 이력을 비동기로 저장하는 서비스입니다.
//
// API 핸들러는 Record 호출로 레코드를 큐에 적재만 하고 즉시 반환하므로,
// MySQL 장애나 지연이 분석 응답 시간에 영향을 주지 않습니다.
type Recorder struct {
	store *Store

	// entryC 저장 대기중인 이력 레코드를 버퍼링하는 내부 큐
	entryC chan *Entry

	running   bool
	runningMu sync.Mutex
}

// NewRecorder Recorder 객체를 생성합니다.
func NewRecorder(store *Store) *Recorder {
	if store == nil {
		panic("Store는 필수입니다")
	}

	return &Recorder{
		store: store,

		entryC: make(chan *Entry, recordQueueSize),

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start 이력 저장 서비스를 시작하여 Writer 고루틴을 활성화합니다.
func (r *Recorder) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	r.runningMu.Lock()
	defer r.runningMu.Unlock()

	applog.WithComponent(recorderComponent).Info("History 서비스 시작중...")

	if r.running {
		defer serviceStopWG.Done()
		applog.WithComponent(recorderComponent).Warn("History 서비스가 이미 시작됨!!!")
		return nil
	}

	go r.writeEntries(serviceStopCtx, serviceStopWG)

	r.running = true

	applog.WithComponent(recorderComponent).Info("History 서비스 시작됨")

	return nil
}

// Record 분석 이력 레코드를 저장 큐에 비차단 방식으로 등록합니다.
// 큐가 가득 찬 경우 레코드를 버리고 로그를 남기며, 호출자는 블로킹되지 않습니다.
//
// 반환값은 큐 등록 성공 여부이며, 실제 저장 성공 여부는 아닙니다.
func (r *Recorder) Record(entry *Entry) bool {
	if entry == nil {
		return false
	}

	r.runningMu.Lock()
	running := r.running
	r.runningMu.Unlock()

	if !running {
		applog.WithComponent(recorderComponent).Warn("History 서비스가 중지된 상태여서 이력을 저장할 수 없습니다")
		return false
	}

	select {
	case r.entryC <- entry:
		return true
	default:
		applog.WithComponentAndFields(recorderComponent, applog.Fields{
			"queue_size": recordQueueSize,
			"request_id": entry.RequestID,
		}).Warn("이력 저장 큐가 가득 차 레코드를 폐기합니다")
		return false
	}
}

// writeEntries 저장 큐로부터 이력 레코드를 수신하여 MySQL에 기록하는 Writer 루프입니다.
// 서비스 종료 시그널을 받으면 큐에 남은 레코드를 모두 저장한 후 종료합니다.
func (r *Recorder) writeEntries(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case entry := <-r.entryC:
			r.writeEntry(entry)

		case <-serviceStopCtx.Done():
			applog.WithComponent(recorderComponent).Info("History 서비스 중지중...")

			r.drainRemainingEntries()

			r.runningMu.Lock()
			r.running = false
			r.runningMu.Unlock()

			applog.WithComponent(recorderComponent).Info("History 서비스 중지됨")

			return
		}
	}
}

// writeEntry 이력 한 건을 MySQL에 저장합니다. 실패해도 루프는 계속됩니다.
func (r *Recorder) writeEntry(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if err := r.store.Insert(ctx, entry); err != nil {
		applog.WithComponentAndFields(recorderComponent, applog.Fields{
			"error":      err,
			"request_id": entry.RequestID,
			"filename":   entry.Filename,
		}).Error("분석 이력 저장 실패")
		return
	}

	applog.WithComponentAndFields(recorderComponent, applog.Fields{
		"request_id":    entry.RequestID,
		"risk_level":    entry.RiskLevel,
		"total_hazards": entry.TotalHazards,
	}).Debug("분석 이력 저장 완료")
}

// drainRemainingEntries 종료 시그널 수신 후 큐에 남은 레코드를 모두 저장합니다.
func (r *Recorder) drainRemainingEntries() {
	for {
		select {
		case entry := <-r.entryC:
			r.writeEntry(entry)
		default:
			return
		}
	}
}
