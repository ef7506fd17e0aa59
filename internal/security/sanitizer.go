// Package security 는 외부 입력 위생 처리와 아웃바운드 HTTP 클라이언트 생성을 제공한다.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer 는 제3자 제공 문자열의 위생 처리를 담당한다.
// 택배사 API 가 반환한 상태명은 푸시 본문과 메시지 로그에 그대로 들어가므로
// 마크업을 전부 제거한 뒤에 사용한다.
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer 는 모든 태그를 제거하는 StrictPolicy 기반 새니타이저를 생성한다.
func NewContentSanitizer() *ContentSanitizer {
	return &ContentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeStatusName 은 택배사 상태명에서 마크업을 제거하고 트림해 반환한다.
func (s *ContentSanitizer) SanitizeStatusName(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
