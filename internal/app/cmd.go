package app

// Command 는 애플리케이션 기동 모드를 나타낸다.
type Command string

const (
	// CommandServe 는 API 서버 모드 기동을 의미한다.
	CommandServe Command = "serve"
	// CommandWorker 는 폴링 워커 모드 기동을 의미한다.
	CommandWorker Command = "worker"
	// CommandMigrate 는 데이터베이스 마이그레이션 실행을 의미한다.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck 는 헬스체크 실행을 의미한다.
	// distroless 환경의 Docker 헬스체크 용도.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand 는 커맨드라인 인자에서 서브커맨드를 해석한다.
// 인자가 없거나 지원하지 않는 커맨드이면 CommandServe 를 반환한다.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
