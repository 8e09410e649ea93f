package lgzip

import (
	"bufio"
	"compress/gzip"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
	"io"
	"strings"
	"sync"
)

var gzipWriterPool = &sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

var bufferedWriterPool = &sync.Pool{
	New: func() interface{} {
		return bufio.NewWriter(io.Discard)
	},
}

func HttpServerCompressResponseInterceptor() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		encodings := request.Request.Header.Values("Accept-Encoding")
		acceptsGzip := false
		for _, encoding := range encodings {
			for _, localEncoding := range strings.Split(encoding, ",") {
				if strings.EqualFold(strings.Trim(localEncoding, " "), "gzip") {
					acceptsGzip = true
					break
				}
			}
		}

		if !acceptsGzip {
			next(request)
			return
		}

		// Don't pass the information downstream to avoid double encoding
		request.Request.Header.Del("Accept-Encoding")

		bufferedWriter := bufferedWriterPool.Get().(*bufio.Writer)
		defer bufferedWriterPool.Put(bufferedWriter)
		bufferedWriter.Reset(request.Writer)
		defer bufferedWriter.Flush()

		gzipWriter := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gzipWriter)
		gzipWriter.Reset(bufferedWriter)
		defer gzipWriter.Close()
		request.Writer.Header().Set("Content-Encoding", "gzip")
		request.Writer.Header().Add("Vary", "Accept-Encoding")

		next(request.WithWriter(&wrappers.CustomizableResponseWriter{
			Response: request.Writer,
			Writer:   gzipWriter,
			OnWriteHeader: func(w *wrappers.CustomizableResponseWriter, code int) {
				// the compressed length differs from whatever the handler computed
				w.Response.Header().Del("Content-Length")
				w.Response.WriteHeader(code)
			},
		}))
	}
}
