package predict

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testArtifact = `{
  "default": {
    "intercept": 2880.0,
    "coef": -360.0,
    "status_codes": {"집화처리": 0, "간선상차": 1, "간선하차": 2, "배송출발": 3, "sm 입고": 4}
  },
  "carriers": {
    "kr.cjlogistics": {
      "intercept": 2400.0,
      "coef": -300.0,
      "status_codes": {"집화처리": 0, "배송출발": 3}
    }
  }
}`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("아티팩트 파일 작성 실패: %v", err)
	}
	return path
}

func TestLoadFile_BuildsRegistry(t *testing.T) {
	reg, err := LoadFile(writeArtifact(t, testArtifact))
	if err != nil {
		t.Fatalf("LoadFile 이 에러를 반환했다: %v", err)
	}

	a := NewAdapter(reg)
	ref := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	// 택배사별 모델: 2400 - 300*3 = 1500
	p, err := a.Predict("kr.cjlogistics", "배송출발", ref)
	if err != nil {
		t.Fatalf("Predict 가 에러를 반환했다: %v", err)
	}
	if p.Minutes != 1500 {
		t.Errorf("택배사별 모델: Minutes = %v, want 1500", p.Minutes)
	}

	// 미등록 택배사는 기본 모델: 2880 - 360*3 = 1800
	p, err = a.Predict("kr.epost", "배송출발", ref)
	if err != nil {
		t.Fatalf("Predict 가 에러를 반환했다: %v", err)
	}
	if p.Minutes != 1800 {
		t.Errorf("기본 모델: Minutes = %v, want 1800", p.Minutes)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("존재하지 않는 파일은 에러를 반환해야 한다")
	}
}

func TestLoadFile_MalformedJSON(t *testing.T) {
	if _, err := LoadFile(writeArtifact(t, "{not json")); err == nil {
		t.Fatal("깨진 JSON 은 에러를 반환해야 한다")
	}
}
