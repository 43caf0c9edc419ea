package database

import (
	"net/url"
	"strconv"

	"github.com/lootworks/floorsync/internal/config"
)

// BuildConnString renders a DBConfig as a postgres URL. The URL type
// handles userinfo escaping, so passwords with reserved characters are
// safe. SSLMode is resolved by config defaulting before this point.
func BuildConnString(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}
