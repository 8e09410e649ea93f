package sbhttpserver

import (
	"k8s.io/apimachinery/pkg/api/resource"

	lconfig "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/config"
	lgzip "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/gzip"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/interceptors"
	interceptors_inflight "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/interceptors/in-flight"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

type BaseInterceptorsConfig struct {
	DisableGzipRequestDecompression bool              `env:"SERVER_HTTP_DISABLE_GZIP_REQUEST"`
	DisableGzipResponseCompression  bool              `env:"SERVER_HTTP_DISABLE_GZIP_RESPONSE"`
	DisableRequestLog               bool              `env:"SERVER_HTTP_DISABLE_REQUEST_LOG"`
	DisableLimiter                  bool              `env:"SERVER_HTTP_DISABLE_LIMITER"`
	MaxRequestSize                  resource.Quantity `env:"SERVER_HTTP_MAX_REQUEST_SIZE" envDefault:"1Mi"`
	// JSON object of headers added to every API response, e.g. CORS headers
	ResponseHeaders map[string]string `env:"SERVER_HTTP_RESPONSE_HEADERS"`
	LogIO           interceptors.LogIOConfig
}

func NewBaseInterceptorsConfigFromEnv() (*BaseInterceptorsConfig, error) {
	var cfg BaseInterceptorsConfig
	if err := lconfig.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type BaseInterceptors []sbhttpbase.RegistrableMiddleware

func NewBaseInterceptors(cfg *BaseInterceptorsConfig, limiter *interceptors_inflight.Interceptor) BaseInterceptors {
	return GetBaseInterceptors(*cfg, limiter)
}

// GetBaseInterceptors lists the middleware applied in front of every API handler, outermost first
func GetBaseInterceptors(cfg BaseInterceptorsConfig, limiter *interceptors_inflight.Interceptor) []sbhttpbase.RegistrableMiddleware {
	ret := []sbhttpbase.RegistrableMiddleware{}

	if !cfg.DisableRequestLog {
		ret = append(ret, interceptors.HttpServerRequestLogInterceptor())
	}

	if !cfg.DisableLimiter && limiter != nil {
		ret = append(ret, limiter.ToHTTP())
	}

	ret = append(ret, interceptors.HttpServerLimitSizeInterceptor(cfg.MaxRequestSize))

	if !cfg.DisableGzipRequestDecompression {
		ret = append(ret, lgzip.HttpServerDecompressRequestInterceptor())
	}

	if !cfg.DisableGzipResponseCompression {
		ret = append(ret, lgzip.HttpServerCompressResponseInterceptor())
	}

	if len(cfg.ResponseHeaders) > 0 {
		ret = append(ret, interceptors.InjectHeadersInterceptor(interceptors.HeadersFromMap(cfg.ResponseHeaders)))
	}

	logIO := cfg.LogIO
	if logIO.Enabled {
		ret = append(ret, interceptors.HttpServerLogIOInterceptor(&logIO))
	}
	return ret
}
