package configs

// Diisi saat build:
//
//	go build -ldflags "-X pmb_backend/internals/configs.Commit=$(git rev-parse HEAD) \
//	  -X pmb_backend/internals/configs.Branch=$(git rev-parse --abbrev-ref HEAD) \
//	  -X pmb_backend/internals/configs.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Commit    = "dev"
	Branch    = "local"
	BuildTime = "unknown"
)

type VersionInfo struct {
	Commit    string `json:"commit"`
	Short     string `json:"short"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
}

func Version() VersionInfo {
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return VersionInfo{
		Commit:    Commit,
		Short:     short,
		Branch:    Branch,
		BuildTime: BuildTime,
	}
}
