/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * DNS-SD discovery of IPP printers
 */

package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

// DNS-SD service types of IPP printers
var dnssdServiceTypes = []string{"_ipp._tcp", "_ipps._tcp"}

// IppPrinter represents a printer found via DNS-SD
type IppPrinter struct {
	Name string // DNS-SD instance name
	URI  string // Printer URI
}

// DiscoverPrinters browses DNS-SD for IPP printers, using Avahi
// over the system D-Bus, until ctx is done.
//
// Each call uses its own bus connection, which is closed on return.
func DiscoverPrinters(ctx context.Context) ([]IppPrinter, error) {
	conn, err := dnssdConnect()
	if err != nil {
		return nil, fmt.Errorf("dns-sd: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("dns-sd: %w", err)
	}

	defer server.Close()

	events := make(chan dnssdEvent)
	for _, svcType := range dnssdServiceTypes {
		sb, err := server.ServiceBrowserNew(avahi.InterfaceUnspec,
			avahi.ProtoUnspec, svcType, "local", 0)
		if err != nil {
			return nil, fmt.Errorf("dns-sd: %s: %w", svcType, err)
		}

		defer server.ServiceBrowserFree(sb)

		go func() {
			for {
				var ev dnssdEvent
				select {
				case ev.svc = <-sb.AddChannel:
				case ev.svc = <-sb.RemoveChannel:
					ev.removed = true
				case <-ctx.Done():
					return
				}

				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	printers := newDnssdPrinters()
	for {
		select {
		case ev := <-events:
			if ev.removed {
				Log.Debug(' ', "dns-sd: %q: removed", ev.svc.Name)
				printers.remove(ev.svc)
				continue
			}

			resolved, err := server.ResolveService(ev.svc.Interface,
				ev.svc.Protocol, ev.svc.Name, ev.svc.Type, ev.svc.Domain,
				avahi.ProtoUnspec, 0)
			if err != nil {
				Log.Debug(' ', "dns-sd: %q: %s", ev.svc.Name, err)
				continue
			}

			p := printers.add(ev.svc, resolved)
			Log.Debug(' ', "dns-sd: %q: %s", p.Name, p.URI)

		case <-ctx.Done():
			list := printers.list()
			if len(list) == 0 {
				return nil, ErrNoPrinters
			}

			return list, nil
		}
	}
}

// dnssdConnect opens a private connection to the system bus.
// SystemBus returns a shared connection, and go-avahi closes
// the connection it was given when the server is closed
func dnssdConnect() (*dbus.Conn, error) {
	conn, err := dbus.SystemBusPrivate()
	if err != nil {
		return nil, err
	}

	err = conn.Auth(nil)
	if err == nil {
		err = conn.Hello()
	}

	if err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// dnssdEvent is a service appeared or removed by the browser
type dnssdEvent struct {
	svc     avahi.Service
	removed bool
}

// dnssdKey identifies a DNS-SD service instance
type dnssdKey struct {
	iface, proto      int64
	name, typ, domain string
}

// dnssdPrinters collects printers while browsing
type dnssdPrinters struct {
	byService map[dnssdKey]IppPrinter
}

// newDnssdPrinters creates an empty dnssdPrinters
func newDnssdPrinters() *dnssdPrinters {
	return &dnssdPrinters{byService: make(map[dnssdKey]IppPrinter)}
}

// add adds the browsed service svc, resolved into resolved,
// and returns its printer
func (dp *dnssdPrinters) add(svc, resolved avahi.Service) IppPrinter {
	// Port is int16 in go-avahi, uint16 conversion restores
	// ports above 32767
	port := uint16(resolved.Port)
	uri := dnssdPrinterURI(resolved.Type, resolved.Host, port, resolved.Txt)

	p := IppPrinter{Name: svc.Name, URI: uri}
	dp.byService[dnssdServiceKey(svc)] = p
	return p
}

// remove forgets the service
func (dp *dnssdPrinters) remove(svc avahi.Service) {
	delete(dp.byService, dnssdServiceKey(svc))
}

// list returns printers, one per URI, sorted by URI
func (dp *dnssdPrinters) list() []IppPrinter {
	byURI := make(map[string]IppPrinter)
	for _, p := range dp.byService {
		if prev, found := byURI[p.URI]; !found || p.Name < prev.Name {
			byURI[p.URI] = p
		}
	}

	printers := make([]IppPrinter, 0, len(byURI))
	for _, p := range byURI {
		printers = append(printers, p)
	}

	sort.Slice(printers, func(i, j int) bool {
		return printers[i].URI < printers[j].URI
	})

	return printers
}

// dnssdServiceKey returns the key of the browsed service
func dnssdServiceKey(svc avahi.Service) dnssdKey {
	return dnssdKey{
		iface:  int64(svc.Interface),
		proto:  int64(svc.Protocol),
		name:   svc.Name,
		typ:    svc.Type,
		domain: svc.Domain,
	}
}

// dnssdPrinterURI builds printer URI from the resolved service.
// The resource path comes from the "rp" TXT key
func dnssdPrinterURI(svcType, host string, port uint16, txt [][]byte) string {
	scheme := "ipp"
	if strings.HasPrefix(svcType, "_ipps.") {
		scheme = "ipps"
	}

	rp := "ipp/print"
	for _, kv := range txt {
		if bytes.HasPrefix(kv, []byte("rp=")) {
			rp = string(kv[3:])
			break
		}
	}

	host = strings.TrimSuffix(host, ".")
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	return fmt.Sprintf("%s://%s/%s", scheme, addr, strings.TrimPrefix(rp, "/"))
}
