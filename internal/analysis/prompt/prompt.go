// Package prompt 태풍 위험요소 분석에 사용되는 모델 프롬프트를 정의합니다.
package prompt

import "strings"

// basePrompt 분석 지침과 응답 JSON 스키마를 담은 기본 프롬프트입니다.
//
// 네 가지 분석 카테고리(날아갈 수 있는 물건, 구조적 취약점, 높은 곳의
// 위험물, 나무 관련)와 위험도 평가 기준, 그리고 모델이 반환해야 하는
// JSON 형식을 명시합니다.
const basePrompt = `태풍이 올 때 위험할 수 있는 물건이나 결함을 사진에서 분석해주세요.

다음 카테고리별로 위험요소를 확인하고 각각의 위험도를 평가해주세요:

## 1. 날아갈 수 있는 물건들 (Flying Objects)
**쉽게 날아가는 것들:** 쓰레기, 비닐봉지, 종이류, 가벼운 화분, 플라스틱 의자, 현수막, 천막, 파라솔, 임시 간판
**무거워서 잘 안 날아가지만 위험한 것들:** 철제 표지판, 간판, 건설장비, 철근, 자재, 에어컨 실외기, 대형 화분, 석재

## 2. 구조적 취약점 (Structural Vulnerabilities)
깨진/금간 창문, 느슨한 간판, 옥외광고, 손상된 지붕재, 기와, 불안정한 임시구조물, 녹슨 난간, 울타리

## 3. 높은 곳의 위험물 (Elevated Objects)
난간 위 화분, 베란다 빨래건조대, 옥상 물건들 (물탱크, 안테나 등)

## 4. 나무 관련 (Tree Hazards) - 명확히 보이는 것만
명확히 기울어진 나무, 이미 부러진 가지들, 잎이 말라 죽은 나무, 건물에 너무 가까운 큰 나무

## 위험도 평가 기준:
- **이동 용이성**: high(쉽게 날아감) / medium(어느정도) / low(잘 안움직임)
- **충격 위험도**: critical(사망위험) / high(중상) / medium(경상) / low(거의 무해)
- **종합 위험도**: critical / high / medium / low

분석 결과는 다음 JSON 형식으로 반환해주세요:
{
    "overall_risk_level": "low|medium|high|critical",
    "hazards_by_category": {
        "flying_objects": [
            {
                "item": "구체적인 물건명",
                "description": "상세 설명",
                "movement_risk": "high|medium|low",
                "impact_severity": "critical|high|medium|low",
                "overall_risk": "critical|high|medium|low",
                "location": "이미지에서의 구체적 위치",
                "recommendation": "권장 조치"
            }
        ],
        "structural_damage": [
            {
                "item": "구조물명",
                "description": "손상 상태",
                "risk_level": "critical|high|medium|low",
                "location": "위치",
                "recommendation": "권장 조치"
            }
        ],
        "elevated_objects": [
            {
                "item": "물건명",
                "description": "상태",
                "fall_risk": "high|medium|low",
                "impact_severity": "critical|high|medium|low",
                "overall_risk": "critical|high|medium|low",
                "location": "위치",
                "recommendation": "권장 조치"
            }
        ],
        "tree_hazards": [
            {
                "description": "나무 상태",
                "risk_level": "critical|high|medium|low",
                "location": "위치",
                "recommendation": "권장 조치"
            }
        ]
    },
    "risk_summary": {
        "critical_count": 0,
        "high_count": 0,
        "medium_count": 0,
        "low_count": 0,
        "total_hazards": 0
    },
    "urgent_actions": ["즉시 필요한 조치들"],
    "summary": "전반적인 평가",
    "confidence_score": 0.85
}`

// Analysis 기본 분석 프롬프트를 반환합니다.
func Analysis() string {
	return basePrompt
}

// WithGuidelines 기본 프롬프트 뒤에 추가 가이드라인을 덧붙여 반환합니다.
// 가이드라인이 비어있으면 기본 프롬프트를 그대로 반환합니다.
func WithGuidelines(guidelines string) string {
	if strings.TrimSpace(guidelines) == "" {
		return basePrompt
	}
	return basePrompt + "\n\n추가 가이드라인:\n" + guidelines
}
