package lgzip

import (
	"bufio"
	"compress/gzip"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
	"strings"
	"sync"
)

var gzipReaderPool = &sync.Pool{
	New: func() interface{} {
		return &gzip.Reader{}
	},
}

var bufferedReaderPool = &sync.Pool{
	New: func() interface{} {
		return bufio.NewReader(nil)
	},
}

func HttpServerDecompressRequestInterceptor() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		if !strings.EqualFold(request.Request.Header.Get("Content-Encoding"), "gzip") {
			next(request)
			return
		}

		bufferedReader := bufferedReaderPool.Get().(*bufio.Reader)
		defer bufferedReaderPool.Put(bufferedReader)
		bufferedReader.Reset(request.Request.Body)

		gzipReader := gzipReaderPool.Get().(*gzip.Reader)
		defer gzipReaderPool.Put(gzipReader)
		if err := gzipReader.Reset(bufferedReader); err != nil {
			lhttp.NewBadRequest("failed to decompress request").WriteResponse(request.Writer)
			return
		}

		request.Request.Header.Del("Content-Encoding")
		request.Request.Header.Del("Content-Length")
		request.Request.ContentLength = -1

		next(request.WithBody(&wrappers.Body{
			Original: request.Request.Body,
			Reader:   gzipReader,
		}))
	}
}
