// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"

	"go.astrophena.name/devserve/internal/logger"
)

const accessLogTimeFormat = "02/Jan/2006 15:04:05"

// AccessLog wraps next and writes one line per request to logf:
//
//	[16/Oct/2026 17:11:00] "GET /a.txt HTTP/1.1" 200 5
//
// The trailing field is the number of body bytes written, or "-" for none.
func AccessLog(logf logger.Logf, next http.Handler) http.Handler {
	return accessLog(logf, time.Now, next)
}

func accessLog(logf logger.Logf, now func() time.Time, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		size := "-"
		if m.Written > 0 {
			size = strconv.FormatInt(m.Written, 10)
		}
		logf("[%s] %q %d %s",
			now().Format(accessLogTimeFormat),
			r.Method+" "+r.RequestURI+" "+r.Proto,
			m.Code,
			size,
		)
	})
}
