package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Conf *viper.Viper

	// ConfigPath is the INI file holding the server url/token. It follows the
	// platform config dir convention (~/.config/canvastool/canvastool.ini on linux).
	ConfigPath string
)

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("appName", "canvastool")
	Conf.SetDefault("perPage", 100)

	confDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("config.os.UserConfigDir: %v", err)
	}
	ConfigPath = filepath.Join(confDir, "canvastool", "canvastool.ini")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(filepath.Dir(ConfigPath), ".env")
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	Conf.SetConfigFile(ConfigPath)
	Conf.SetConfigType("ini")
	if err := Conf.ReadInConfig(); err != nil {
		// a missing config file is not fatal; the setup command walks the user through it
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			log.Fatalf("config.viper(%s): %v", ConfigPath, err)
		}
	}

	Conf.SetEnvPrefix("CANVAS")
	Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Conf.AutomaticEnv()
}

// ServerConfig is the validated shape of the [server] section of ConfigPath.
type ServerConfig struct {
	URL   string `json:"url" validate:"required,canvasurl"`
	Token string `json:"token" validate:"required,min=21"`
}

func ServerConf() ServerConfig {
	return ServerConfig{
		URL:   Conf.GetString("server.url"),
		Token: Conf.GetString("server.token"),
	}
}

// MossUserID returns the [moss] userid; empty when unset.
func MossUserID() string { return Conf.GetString("moss.userid") }
