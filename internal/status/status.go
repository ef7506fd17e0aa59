// Package status 는 택배사 원본 상태 문자열의 정규화를 제공한다.
package status

import "strings"

// 정규화 카테고리. 선언 순서가 곧 매칭 우선순위이다.
const (
	Delivered      = "배송완료"
	OutForDelivery = "배송출발"
	LineHaulLoad   = "간선상차"
	LineHaulUnload = "간선하차"
	Received       = "집화처리"
	CenterInbound  = "sm 입고"
)

// category 는 정규화 카테고리 하나와 그에 속하는 키워드 집합이다.
type category struct {
	name     string
	keywords []string
}

// categories 는 고정 선언 순서의 카테고리 테이블이다.
// 입력에 여러 카테고리의 키워드가 포함되면 먼저 선언된 카테고리가 이긴다.
// 순서를 바꾸면 정규화 결과가 달라지므로 변경하지 말 것.
var categories = []category{
	{Delivered, []string{"배송완료", "배달완료", "delivered"}},
	{OutForDelivery, []string{"배송출발", "배달출발", "out for delivery"}},
	{LineHaulLoad, []string{"간선상차", "캠프상차", "터미널상차", "상차"}},
	{LineHaulUnload, []string{"간선하차", "캠프도착", "터미널하차", "하차"}},
	{Received, []string{"접수", "인수", "소터분류", "운송장출력", "수거", "집하", "수집"}},
	{CenterInbound, []string{"입고", "센터입고"}},
}

// deliveredSynonyms 는 배송완료와 동의어로 취급하는 종결 상태 집합이다.
// 택배사가 종결 이벤트를 다른 표기로 반복 송신하는 경우의 중복 알림을 막는 데 쓴다.
var deliveredSynonyms = map[string]bool{
	"배송완료": true,
	"배달완료": true,
}

// Normalize 는 택배사 원본 상태 문자열을 정규화 카테고리로 변환한다.
// 소문자화/트림 후 카테고리를 선언 순서대로 스캔하여 키워드가 부분 문자열로
// 포함되는 첫 카테고리를 반환한다. 어느 카테고리에도 매칭되지 않으면
// 소문자화/트림된 원본을 그대로 반환한다. 부수효과가 없는 전함수이다.
func Normalize(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(s, kw) {
				return c.name
			}
		}
	}
	return s
}

// IsDelivered 는 상태가 배송완료 동의어인지 반환한다.
func IsDelivered(s string) bool {
	return deliveredSynonyms[s]
}
