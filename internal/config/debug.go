package config

import "os"

func IsDebug() bool {
	return os.Getenv("MIRA_DEBUG") == "1"
}
