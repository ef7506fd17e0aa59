package security

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewOutboundClient 는 아웃바운드 호출용 HTTP 클라이언트를 생성한다.
// 배송조회/토큰 엔드포인트 URL 은 운영 설정에서 오지만, safeurl 의 다이얼러 검증으로
// 사설 IP, 루프백, 링크로컬, 메타데이터 IP 로의 요청을 차단한다.
func NewOutboundClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}
