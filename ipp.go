/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * IPP job ticket and printer validation
 */

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/OpenPrinting/goipp"
)

// IPP orientation-requested enum values
const (
	ippOrientationPortrait  = 3
	ippOrientationLandscape = 4
)

// IppMediaTolerance is how far, in IPP units (1/100 mm), paper size
// may deviate from the printer's media size and still match
const IppMediaTolerance = 100

// IppJobTicket returns the Job Template attributes that describe
// the resolved print settings: paper size, resolution and orientation.
//
// IPP media-size is always given with the short edge as x-dimension,
// the orientation is requested separately.
func IppJobTicket(ps PrintSettings) goipp.Attributes {
	short := math.Min(ps.WidthCM, ps.HeightCM)
	long := math.Max(ps.WidthCM, ps.HeightCM)
	size := PaperSizeFromCM(short, long)

	orientation := ippOrientationPortrait
	if ps.WidthCM > ps.HeightCM {
		orientation = ippOrientationLandscape
	}

	return goipp.Attributes{
		goipp.MakeAttrCollection("media-col",
			goipp.MakeAttrCollection("media-size",
				goipp.MakeAttr("x-dimension", goipp.TagInteger,
					goipp.Integer(size.Width)),
				goipp.MakeAttr("y-dimension", goipp.TagInteger,
					goipp.Integer(size.Height)),
			),
		),
		goipp.MakeAttr("printer-resolution", goipp.TagResolution,
			goipp.Resolution{Xres: ps.DPI, Yres: ps.DPI, Units: goipp.UnitsDpi}),
		goipp.MakeAttr("orientation-requested", goipp.TagEnum,
			goipp.Integer(orientation)),
	}
}

// IppClient talks to an IPP printer
type IppClient struct {
	URI    string       // Printer URI, ipp:// or ipps://
	HTTP   *http.Client // HTTP client
	target string       // HTTP URL for requests
	id     uint32       // Last request ID
}

// NewIppClient creates IppClient for the printer URI
func NewIppClient(uri string, client *http.Client) (*IppClient, error) {
	target, err := ippHTTPURL(uri)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &IppClient{URI: uri, HTTP: client, target: target}, nil
}

// ippHTTPURL converts printer URI into HTTP URL
func ippHTTPURL(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("printer uri: %w", err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("printer uri: %q: missing host", uri)
	}

	switch strings.ToLower(u.Scheme) {
	case "ipp":
		u.Scheme = "http"
	case "ipps":
		u.Scheme = "https"
	case "http", "https":
		return u.String(), nil
	default:
		return "", fmt.Errorf("printer uri: %q: unsupported scheme", uri)
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), IppDefaultPort)
	}

	return u.String(), nil
}

// newRequest creates IPP request with the common operation attributes
func (c *IppClient) newRequest(op goipp.Op) *goipp.Message {
	id := atomic.AddUint32(&c.id, 1)
	msg := goipp.NewRequest(goipp.DefaultVersion, op, id)
	msg.Operation.Add(goipp.MakeAttr("attributes-charset",
		goipp.TagCharset, goipp.String("utf-8")))
	msg.Operation.Add(goipp.MakeAttr("attributes-natural-language",
		goipp.TagLanguage, goipp.String("en-US")))
	msg.Operation.Add(goipp.MakeAttr("printer-uri",
		goipp.TagURI, goipp.String(c.URI)))
	return msg
}

// do sends IPP request and returns decoded response
func (c *IppClient) do(ctx context.Context, msg *goipp.Message) (*goipp.Message, error) {
	Log.Begin().IppRequest('>', msg).Commit()

	data, err := msg.EncodeBytes()
	if err != nil {
		return nil, err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target,
		bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	rq.Header.Set("Content-Type", goipp.ContentType)
	rq.Header.Set("Accept", goipp.ContentType)
	Log.Begin().HTTPRequest('>', rq).Commit()

	rsp, err := c.HTTP.Do(rq)
	if err != nil {
		return nil, err
	}

	defer rsp.Body.Close()
	Log.Begin().HTTPResponse('<', rsp).Commit()

	if rsp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s: HTTP %s", c.URI, rsp.Status)
	}

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, err
	}

	reply := &goipp.Message{}
	err = reply.DecodeBytes(body)
	if err != nil {
		Log.Error('!', "IPP: %s", err)
		return nil, fmt.Errorf("%s: %w", c.URI, err)
	}

	Log.Begin().IppResponse('<', reply).Commit()

	return reply, nil
}

// MediaRange is the range of paper sizes a printer accepts
type MediaRange struct {
	Min, Max PaperSize
}

// Contains tells if paper of size p, in either orientation,
// fits the range within IppMediaTolerance
func (r MediaRange) Contains(p PaperSize) bool {
	in := func(w, h int) bool {
		return r.Min.Width-IppMediaTolerance <= w &&
			w <= r.Max.Width+IppMediaTolerance &&
			r.Min.Height-IppMediaTolerance <= h &&
			h <= r.Max.Height+IppMediaTolerance
	}
	return in(p.Width, p.Height) || in(p.Height, p.Width)
}

// IppPrinterCaps are the printer capabilities relevant for
// the job ticket
type IppPrinterCaps struct {
	Media       []MediaRange // media-size-supported
	Resolutions []int        // printer-resolution-supported, dpi
}

// FitsMedia tells if printer supports the paper size. A printer
// that doesn't report its media accepts anything
func (caps IppPrinterCaps) FitsMedia(p PaperSize) bool {
	if len(caps.Media) == 0 {
		return true
	}

	for _, r := range caps.Media {
		if r.Contains(p) {
			return true
		}
	}

	return false
}

// SupportsDPI tells if printer supports the resolution. A printer
// that doesn't report its resolutions accepts anything
func (caps IppPrinterCaps) SupportsDPI(dpi int) bool {
	if len(caps.Resolutions) == 0 {
		return true
	}

	for _, r := range caps.Resolutions {
		if r == dpi {
			return true
		}
	}

	return false
}

// GetPrinterCaps queries printer capabilities
func (c *IppClient) GetPrinterCaps(ctx context.Context) (IppPrinterCaps, error) {
	msg := c.newRequest(goipp.OpGetPrinterAttributes)
	msg.Operation.Add(goipp.MakeAttr("requested-attributes",
		goipp.TagKeyword,
		goipp.String("media-size-supported"),
		goipp.String("printer-resolution-supported")))

	reply, err := c.do(ctx, msg)
	if err != nil {
		return IppPrinterCaps{}, err
	}

	if status := goipp.Status(reply.Code); status >= goipp.StatusRedirectionOtherSite {
		return IppPrinterCaps{}, fmt.Errorf("%s: Get-Printer-Attributes: %s",
			c.URI, status)
	}

	return ippDecodeCaps(reply.Printer), nil
}

// ippDecodeCaps decodes printer capabilities from the printer
// attributes. Malformed values are skipped
func ippDecodeCaps(attrs goipp.Attributes) IppPrinterCaps {
	var caps IppPrinterCaps

	for _, attr := range attrs {
		switch attr.Name {
		case "media-size-supported":
			for _, v := range attr.Values {
				col, ok := v.V.(goipp.Collection)
				if !ok {
					continue
				}

				var r MediaRange
				var okX, okY bool
				for _, member := range col {
					switch member.Name {
					case "x-dimension":
						r.Min.Width, r.Max.Width, okX = ippDimension(member.Values)
					case "y-dimension":
						r.Min.Height, r.Max.Height, okY = ippDimension(member.Values)
					}
				}

				if okX && okY {
					caps.Media = append(caps.Media, r)
				}
			}

		case "printer-resolution-supported":
			for _, v := range attr.Values {
				res, ok := v.V.(goipp.Resolution)
				if !ok || res.Xres != res.Yres {
					continue
				}

				switch res.Units {
				case goipp.UnitsDpi:
					caps.Resolutions = append(caps.Resolutions, res.Xres)
				case goipp.UnitsDpcm:
					dpi := int(math.Round(float64(res.Xres) * CMPerInch))
					caps.Resolutions = append(caps.Resolutions, dpi)
				}
			}
		}
	}

	return caps
}

// ippDimension decodes media x-dimension or y-dimension, which
// is either integer or rangeOfInteger
func ippDimension(vals goipp.Values) (min, max int, ok bool) {
	if len(vals) == 0 {
		return
	}

	switch v := vals[0].V.(type) {
	case goipp.Integer:
		return int(v), int(v), true
	case goipp.Range:
		return v.Lower, v.Upper, true
	}

	return
}

// IppValidation is the result of ValidateJob
type IppValidation struct {
	Status      goipp.Status // IPP status
	Unsupported []string     // Names of unsupported attributes
	MediaFits   bool         // Paper size is in media-size-supported
	DPIFits     bool         // DPI is in printer-resolution-supported
}

// ValidateJob checks printer capabilities and sends Validate-Job
// with the job ticket of ps. A response with error status returns
// ErrIppRejected together with the result
func (c *IppClient) ValidateJob(ctx context.Context, ps PrintSettings) (IppValidation, error) {
	var result IppValidation

	caps, err := c.GetPrinterCaps(ctx)
	if err != nil {
		return result, err
	}

	short := math.Min(ps.WidthCM, ps.HeightCM)
	long := math.Max(ps.WidthCM, ps.HeightCM)
	result.MediaFits = caps.FitsMedia(PaperSizeFromCM(short, long))
	result.DPIFits = caps.SupportsDPI(ps.DPI)

	msg := c.newRequest(goipp.OpValidateJob)
	msg.Operation.Add(goipp.MakeAttr("requesting-user-name",
		goipp.TagName, goipp.String(IppRequestingUser)))
	msg.Job = IppJobTicket(ps)

	reply, err := c.do(ctx, msg)
	if err != nil {
		return result, err
	}

	result.Status = goipp.Status(reply.Code)
	for _, attr := range reply.Unsupported {
		result.Unsupported = append(result.Unsupported, attr.Name)
	}

	if result.Status >= goipp.StatusRedirectionOtherSite {
		return result, fmt.Errorf("%s: %s: %w", c.URI, result.Status, ErrIppRejected)
	}

	return result, nil
}
