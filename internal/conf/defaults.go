// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	inat := inaturalist.DefaultConfig()
	v.SetDefault("inaturalist.baseurl", inat.BaseURL)
	v.SetDefault("inaturalist.weburl", inat.WebURL)
	v.SetDefault("inaturalist.timeout", inat.Timeout)
	v.SetDefault("inaturalist.useragent", inat.UserAgent)
	v.SetDefault("inaturalist.standardperpage", inat.StandardPerPage)
	v.SetDefault("inaturalist.provisionalperpage", inat.ProvisionalPerPage)

	v.SetDefault("webserver.listen", ":8080")
	v.SetDefault("webserver.readtimeout", 30*time.Second)
	v.SetDefault("webserver.writetimeout", 60*time.Second)
	v.SetDefault("webserver.shutdowntimeout", 10*time.Second)

	v.SetDefault("logging.defaultlevel", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.fileoutput.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.fileoutput.path", logger.DefaultLogPath)
	v.SetDefault("logging.fileoutput.level", logger.DefaultLogLevel)
	v.SetDefault("logging.modulelevels", map[string]string{})
}
