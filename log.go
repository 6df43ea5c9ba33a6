/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Logging of IPP and HTTP exchanges
 */

package main

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/OpenPrinting/goipp"
)

// IppRequest writes IPP request message at the LogTraceIPP level
func (msg *LogMessage) IppRequest(prefix byte, m *goipp.Message) *LogMessage {
	f := goipp.NewFormatter()
	f.FmtRequest(m)
	return msg.Text(LogTraceIPP, prefix, f.String())
}

// IppResponse writes IPP response message at the LogTraceIPP level
func (msg *LogMessage) IppResponse(prefix byte, m *goipp.Message) *LogMessage {
	f := goipp.NewFormatter()
	f.FmtResponse(m)
	return msg.Text(LogTraceIPP, prefix, f.String())
}

// HTTPRequest writes HTTP request line and headers
func (msg *LogMessage) HTTPRequest(prefix byte, rq *http.Request) *LogMessage {
	title := fmt.Sprintf("%s %s %s", rq.Method, rq.URL, rq.Proto)
	return msg.httpHdr(prefix, title, rq.Header)
}

// HTTPResponse writes HTTP status line and headers
func (msg *LogMessage) HTTPResponse(prefix byte, rsp *http.Response) *LogMessage {
	title := fmt.Sprintf("%s %s", rsp.Proto, rsp.Status)
	return msg.httpHdr(prefix, title, rsp.Header)
}

// httpHdr writes HTTP header, sorted by key
func (msg *LogMessage) httpHdr(prefix byte, title string, hdr http.Header) *LogMessage {
	keys := []string{}
	for k := range hdr {
		keys = append(keys, k)
	}

	msg.add(LogTraceIPP, prefix, "HTTP %s", title)
	sort.Strings(keys)
	for _, k := range keys {
		msg.add(LogTraceIPP, prefix, "  %s: %s", k, hdr.Get(k))
	}

	return msg
}
