package rws

import (
	"crypto/tls"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/icholy/digest"
	"github.com/iwtcode/abbAdapter/rws/model"
	"github.com/iwtcode/abbAdapter/rws/paths"
)

const (
	Version1 = model.Version1
	Version2 = model.Version2
)

// Dialect описывает различия между версиями RWS: транспорт, аутентификацию
// и адреса ресурсов.
type Dialect struct {
	Version     string
	Scheme      string
	DefaultPort uint16
	Accept      string
	ContentType string
	Digest      bool
	Paths       model.Paths
}

// GetDialect выбирает набор параметров протокола по строке версии.
// Неизвестная или пустая версия трактуется как RWS 1.0.
func GetDialect(version string) Dialect {
	v := strings.TrimSpace(version)

	if strings.HasPrefix(v, "2") {
		return Dialect{
			Version:     Version2,
			Scheme:      "https",
			DefaultPort: 443,
			Accept:      "application/xhtml+xml;v=2.0",
			ContentType: "application/x-www-form-urlencoded;v=2.0",
			Digest:      false,
			Paths:       paths.V2{},
		}
	}

	return Dialect{
		Version:     Version1,
		Scheme:      "http",
		DefaultPort: 80,
		Accept:      "application/xhtml+xml",
		ContentType: "application/x-www-form-urlencoded",
		Digest:      true,
		Paths:       paths.V1{},
	}
}

// newAuthTransport оборачивает базовый транспорт аутентификацией, принятой в диалекте.
func (d Dialect) newAuthTransport(base http.RoundTripper, username, password string, insecureTLS bool) http.RoundTripper {
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if d.Scheme == "https" {
			// Контроллеры OmniCore поставляются с самоподписанным сертификатом.
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureTLS} //nolint:gosec
		}
		base = t
	}

	if d.Digest {
		return &digest.Transport{
			Username:  username,
			Password:  password,
			Transport: base,
		}
	}

	return &basicTransport{
		header: "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password)),
		next:   base,
	}
}

type basicTransport struct {
	header string
	next   http.RoundTripper
}

func (t *basicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.header)
	return t.next.RoundTrip(r)
}
