package status

import "testing"

func TestNormalize_SingleCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"배송완료", Delivered},
		{"배달완료", Delivered},
		{"Delivered", Delivered},
		{"배송출발", OutForDelivery},
		{"Out For Delivery", OutForDelivery},
		{"간선상차", LineHaulLoad},
		{"캠프상차", LineHaulLoad},
		{"터미널상차", LineHaulLoad}, // 시나리오 A
		{"간선하차", LineHaulUnload},
		{"캠프도착", LineHaulUnload},
		{"접수", Received},
		{"소터분류", Received},
		{"운송장출력", Received},
		{"센터입고", CenterInbound},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_TrimsAndLowercases(t *testing.T) {
	if got := Normalize("  DELIVERED  "); got != Delivered {
		t.Errorf("Normalize 가 트림/소문자화를 하지 않았다: %q", got)
	}
}

// 여러 카테고리의 키워드가 섞인 입력은 먼저 선언된 카테고리가 이긴다.
func TestNormalize_DeclaredOrderWins(t *testing.T) {
	// "배송완료" 와 "상차" 가 모두 포함 → 배송완료가 우선
	if got := Normalize("상차 후 배송완료"); got != Delivered {
		t.Errorf("선언 순서 우선 매칭이 깨졌다: got %q, want %q", got, Delivered)
	}
	// "상차" 와 "하차" 가 모두 포함 → 간선상차가 우선
	if got := Normalize("터미널하차 후 상차"); got != LineHaulLoad {
		t.Errorf("선언 순서 우선 매칭이 깨졌다: got %q, want %q", got, LineHaulLoad)
	}
	// "입고" 는 집화처리의 어떤 키워드에도 걸리지 않고 sm 입고에 걸린다
	if got := Normalize("물류센터 입고"); got != CenterInbound {
		t.Errorf("got %q, want %q", got, CenterInbound)
	}
}

// 매칭 실패 시 소문자화/트림된 원본을 그대로 반환한다.
func TestNormalize_FallbackReturnsRaw(t *testing.T) {
	if got := Normalize("  Custom Status  "); got != "custom status" {
		t.Errorf("fallback = %q, want %q", got, "custom status")
	}
	if got := Normalize(""); got != "" {
		t.Errorf("빈 입력은 빈 문자열을 반환해야 한다: %q", got)
	}
}

func TestIsDelivered(t *testing.T) {
	if !IsDelivered("배송완료") || !IsDelivered("배달완료") {
		t.Error("배송완료/배달완료 는 종결 동의어여야 한다")
	}
	if IsDelivered("배송출발") || IsDelivered("delivered") {
		t.Error("종결 동의어 집합은 한국어 표기 두 가지로 한정된다")
	}
}
