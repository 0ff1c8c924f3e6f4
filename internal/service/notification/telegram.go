package notification

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// telegramMessageMaxLength 텔레그램 메시지 전송 시 허용되는 최대 길이입니다.
	//
	// 텔레그램 Bot API 공식 제한은 4096자이지만, HTML 태그 및 메타데이터
	// 오버헤드를 고려하여 안전 마진을 두고 3900자로 설정했습니다.
	// 이를 초과하는 메시지는 자동으로 분할 전송됩니다.
	telegramMessageMaxLength = 3900

	// telegramRateLimit 텔레그램 API Rate Limit (초당 허용 요청 수)
	// 공식 문서는 채팅방당 초당 1회를 권장합니다.
	telegramRateLimit = 1

	// telegramRateBurst 텔레그램 API Rate Limit 버스트 (순간 최대 허용 요청 수)
	telegramRateBurst = 5

	// telegramRetryDelay 알림 발송 실패 시 재시도 대기 시간의 기본값
	telegramRetryDelay = 1 * time.Second

	// telegramHTTPClientTimeout 텔레그램 API 클라이언트의 HTTP 요청 타임아웃
	telegramHTTPClientTimeout = 30 * time.Second

	// maxSendRetries 메시지 전송 실패 시 최대 재시도 횟수
	maxSendRetries = 3
)

// client 텔레그램 봇 API와의 메시지 전송 통신을 추상화한 인터페이스입니다.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// newTelegramClient 텔레그램 봇 API 클라이언트를 생성합니다.
//
// Go의 기본 http.DefaultClient는 타임아웃이 설정되어 있지 않아, 네트워크 장애
// 발생 시 요청이 무한히 대기하는 리소스 누수가 발생할 수 있으므로
// 명시적인 타임아웃을 가진 HTTP 클라이언트를 주입합니다.
func newTelegramClient(botToken string, debug bool) (client, error) {
	httpClient := &http.Client{
		Timeout: telegramHTTPClientTimeout,
	}

	botAPI, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, err
	}
	botAPI.Debug = debug

	return botAPI, nil
}

// sendMessage 긴 메시지를 텔레그램 API 제한에 맞춰 분할하여 전송합니다.
//
// 가능한 한 줄바꿈(\n) 단위로 나누어 문장이 중간에 잘리지 않도록 하고,
// 한 줄 자체가 제한을 초과하는 경우에만 UTF-8 문자 경계를 존중하여 강제로
// 분할합니다. 중간에 전송이 실패하면 남은 청크의 전송을 중단합니다.
func (s *Service) sendMessage(ctx context.Context, message string) {
	if len(message) <= telegramMessageMaxLength {
		_ = s.sendChunk(ctx, message)
		return
	}

	var sb strings.Builder
	sb.Grow(telegramMessageMaxLength)

	for line := range strings.SplitSeq(message, "\n") {
		if ctx.Err() != nil {
			return
		}

		neededSpace := len(line)
		if sb.Len() > 0 {
			neededSpace += 1 // 줄바꿈 문자
		}

		if sb.Len()+neededSpace > telegramMessageMaxLength {
			if sb.Len() > 0 {
				if err := s.sendChunk(ctx, sb.String()); err != nil {
					return
				}
				sb.Reset()
			}

			// 한 줄 자체가 제한을 초과하는 경우 강제 분할
			if len(line) > telegramMessageMaxLength {
				currentLine := line
				for len(currentLine) > telegramMessageMaxLength {
					if ctx.Err() != nil {
						return
					}

					chunk, remainder := safeSplit(currentLine, telegramMessageMaxLength)
					if err := s.sendChunk(ctx, chunk); err != nil {
						return
					}
					currentLine = remainder
				}
				sb.WriteString(currentLine)
			} else {
				sb.WriteString(line)
			}
		} else {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}

	if sb.Len() > 0 {
		_ = s.sendChunk(ctx, sb.String())
	}
}

// sendChunk 분할된 단일 메시지 청크를 텔레그램 API로 전송합니다.
func (s *Service) sendChunk(ctx context.Context, message string) error {
	return s.attemptSendWithRetry(ctx, message, true)
}

// attemptSendWithRetry 텔레그램 메시지 전송을 시도하며, 실패 시 자동으로 재시도합니다.
//
//   - Rate Limiter로 텔레그램 API의 전송 횟수 제한을 준수합니다.
//   - 일시적 오류(5xx, 429) 발생 시 최대 3회까지 재시도합니다.
//   - 429 응답의 Retry-After 값이 있으면 해당 시간만큼 대기합니다.
//   - HTML 파싱 실패(400) 시 PlainText 모드로 전환하여 재시도합니다.
//   - 재시도 대기 중에도 컨텍스트 취소에 즉시 반응합니다.
func (s *Service) attemptSendWithRetry(ctx context.Context, message string, useHTML bool) error {
	messageConfig := tgbotapi.NewMessage(s.chatID, message)
	if useHTML {
		messageConfig.ParseMode = tgbotapi.ModeHTML
	} else {
		messageConfig.ParseMode = ""
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
				"limit": s.rateLimiter.Limit(),
				"burst": s.rateLimiter.Burst(),
			}).Debug("작업 중단: RateLimiter 대기 중 컨텍스트가 취소되었습니다")

			return err
		}
	}

	var lastErr error

	for attempt := 1; attempt <= maxSendRetries; attempt++ {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				applog.WithComponentAndFields(component, applog.Fields{
					"error":   ctx.Err(),
					"attempt": attempt,
				}).Error("작업 중단: 발송 제한 시간(Timeout)을 초과하였습니다")
			}
			return ctx.Err()

		default:
		}

		_, err := s.client.Send(messageConfig)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id":        s.chatID,
				"attempt":        attempt,
				"mode":           formatParseMode(messageConfig.ParseMode),
				"message_length": len(message),
			}).Info("발송 성공: 텔레그램 API로 메시지가 정상 전송되었습니다")

			return nil
		}

		lastErr = err
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id":        s.chatID,
			"attempt":        attempt,
			"error":          err,
			"mode":           formatParseMode(messageConfig.ParseMode),
			"message_length": len(message),
		}).Warn("발송 실패: 텔레그램 API 호출에서 오류가 발생했습니다 (재시도 예정)")

		errCode, retryAfter := parseTelegramError(err)

		// 400 Bad Request는 대부분 HTML 파싱 실패를 의미하므로,
		// 메시지 내용은 그대로 유지한 채 PlainText 모드로 전환하여 재시도합니다.
		if useHTML && errCode == 400 {
			applog.WithComponentAndFields(component, applog.Fields{
				"error":          err,
				"attempt":        attempt,
				"message_length": len(message),
			}).Warn("HTML 파싱 오류(400): PlainText 모드로 자동 전환하여 재시도합니다 (Fallback)")

			return s.attemptSendWithRetry(ctx, message, false)
		}

		if !shouldRetry(errCode) {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": s.chatID,
				"error":   err,
				"code":    errCode,
				"attempt": attempt,
			}).Error("작업 중단: 재시도 불가능한 API 오류가 발생했습니다 (4xx Fatal Error)")

			return err
		}

		if attempt >= maxSendRetries {
			break
		}

		// 429 Rate Limit 에러 시 서버가 Retry-After로 지정한 시간만큼 대기합니다.
		if errCode == 429 && retryAfter > 0 {
			applog.WithComponentAndFields(component, applog.Fields{
				"retry_after": retryAfter,
				"attempt":     attempt,
			}).Warn("재시도 대기: 429 Rate Limit 감지 (Retry-After 준수)")
		}

		backoff := s.delayForRetry(retryAfter)
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				applog.WithComponentAndFields(component, applog.Fields{
					"error":   ctx.Err(),
					"backoff": backoff,
					"attempt": attempt,
				}).Error("재시도 중단: 대기 중 작업 제한 시간(Timeout)을 초과하였습니다")
			}
			return ctx.Err()

		case <-time.After(backoff):
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id":        s.chatID,
		"error":          lastErr,
		"max_retries":    maxSendRetries,
		"message_length": len(message),
		"use_html":       useHTML,
	}).Error("전송 최종 실패: 최대 재시도 횟수를 초과하였습니다")

	return lastErr
}

// shouldRetry 주어진 HTTP 상태 코드를 기반으로 메시지 전송 재시도 가능 여부를 판단합니다.
// 4xx 클라이언트 에러는 재시도하지 않으며, 429 Rate Limit만 예외적으로 재시도합니다.
func shouldRetry(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		return statusCode == 429
	}

	// 5xx 서버 에러 및 기타 모든 에러는 재시도 가능 (네트워크 에러 등 errCode=0인 경우 포함)
	return true
}

// delayForRetry 다음 재시도까지의 대기 시간을 계산합니다.
// 서버가 Retry-After로 대기 시간을 지정한 경우(429) 이를 우선 사용합니다.
func (s *Service) delayForRetry(retryAfter int) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	return s.retryDelay
}

// formatParseMode 텔레그램 메시지 파싱 모드를 로깅용 문자열로 변환합니다.
func formatParseMode(mode string) string {
	if mode == tgbotapi.ModeHTML {
		return "HTML"
	}
	return "PlainText"
}

// parseTelegramError 텔레그램 API 에러에서 HTTP 상태 코드와 Retry-After 값을 추출합니다.
// 텔레그램 에러가 아닌 경우(일반 네트워크 에러 등) 0을 반환합니다.
func parseTelegramError(err error) (code int, retryAfter int) {
	if apiErr, ok := err.(tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	if apiErrPtr, ok := err.(*tgbotapi.Error); ok {
		return apiErrPtr.Code, apiErrPtr.ResponseParameters.RetryAfter
	}
	return 0, 0
}

// safeSplit UTF-8 문자열을 지정된 바이트 길이(limit) 내에서 안전하게 분할합니다.
// limit 위치가 멀티바이트 문자의 중간이면 뒤로 이동하며 가장 가까운 룬 시작
// 위치에서 분할하여 한글, 이모지 등이 깨지지 않도록 합니다.
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	splitIndex := limit
	for splitIndex > 0 && !utf8.RuneStart(s[splitIndex]) {
		splitIndex--
	}

	// limit 이전에 유효한 룬 시작점이 없는 극단적인 경우는 강제로 자릅니다.
	if splitIndex == 0 {
		return s[:limit], s[limit:]
	}

	return s[:splitIndex], s[splitIndex:]
}
