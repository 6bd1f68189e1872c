// Package ofx reads holdings out of OFX/QFX investment statements.
package ofx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Supports reports whether the file looks like an OFX document.
func Supports(file domain.File) bool {
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".ofx", ".qfx":
		return true
	}
	head := file.Data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.ToUpper(head)
	return bytes.Contains(head, []byte("OFXHEADER")) || bytes.Contains(head, []byte("<OFX>"))
}

// ParsePortfolio maps the positions of every investment statement in the
// file to holdings. Files that are not OFX return domain.ErrUnsupportedFormat.
func (p *Parser) ParsePortfolio(_ context.Context, file domain.File) (*domain.Portfolio, error) {
	if !Supports(file) {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "parse ofx statement", fmt.Errorf("%s is not an OFX file", file.Name))
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(file.Data))))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse ofx statement", err)
	}

	securities := securityNames(resp)
	var holdings []domain.Holding
	for _, msg := range resp.InvStmt {
		stmt, ok := msg.(*ofxgo.InvStatementResponse)
		if !ok {
			continue
		}
		for _, pos := range stmt.InvPosList {
			h, ok := holdingFor(pos, securities)
			if !ok {
				slog.Warn("ofx_position_skipped", "file", file.Name, "type", pos.PositionType())
				continue
			}
			holdings = append(holdings, h)
		}
	}
	if len(holdings) == 0 {
		return nil, domain.WrapError(domain.ErrNoPortfolioData, "parse ofx statement", errors.New("no investment positions"))
	}

	var total float64
	for _, h := range holdings {
		total += h.Value
	}
	return &domain.Portfolio{
		TotalValue:  money.Round2(total),
		Holdings:    holdings,
		SourceFile:  file.Name,
		ExtractedAt: p.now().UTC(),
	}, nil
}

type security struct {
	name   string
	ticker string
}

func securityNames(resp *ofxgo.Response) map[string]security {
	out := make(map[string]security)
	for _, msg := range resp.SecList {
		list, ok := msg.(*ofxgo.SecurityList)
		if !ok {
			continue
		}
		for _, sec := range list.Securities {
			info, ok := secInfo(sec)
			if !ok {
				continue
			}
			out[string(info.SecID.UniqueID)] = security{name: string(info.SecName), ticker: string(info.Ticker)}
		}
	}
	return out
}

func secInfo(sec ofxgo.Security) (ofxgo.SecInfo, bool) {
	switch s := sec.(type) {
	case ofxgo.StockInfo:
		return s.SecInfo, true
	case *ofxgo.StockInfo:
		return s.SecInfo, true
	case ofxgo.MFInfo:
		return s.SecInfo, true
	case *ofxgo.MFInfo:
		return s.SecInfo, true
	case ofxgo.DebtInfo:
		return s.SecInfo, true
	case *ofxgo.DebtInfo:
		return s.SecInfo, true
	case ofxgo.OptInfo:
		return s.SecInfo, true
	case *ofxgo.OptInfo:
		return s.SecInfo, true
	case ofxgo.OtherInfo:
		return s.SecInfo, true
	case *ofxgo.OtherInfo:
		return s.SecInfo, true
	}
	return ofxgo.SecInfo{}, false
}

func holdingFor(pos ofxgo.Position, securities map[string]security) (domain.Holding, bool) {
	var (
		inv        ofxgo.InvPosition
		kind       string
		assetClass string
	)
	switch p := pos.(type) {
	case ofxgo.StockPosition:
		inv, kind, assetClass = p.InvPos, "Stock", "Stocks"
	case *ofxgo.StockPosition:
		inv, kind, assetClass = p.InvPos, "Stock", "Stocks"
	case ofxgo.MFPosition:
		inv, kind, assetClass = p.InvPos, "Mutual Fund", "Mutual Funds"
	case *ofxgo.MFPosition:
		inv, kind, assetClass = p.InvPos, "Mutual Fund", "Mutual Funds"
	case ofxgo.DebtPosition:
		inv, kind, assetClass = p.InvPos, "Bond", "Bonds"
	case *ofxgo.DebtPosition:
		inv, kind, assetClass = p.InvPos, "Bond", "Bonds"
	case ofxgo.OptPosition:
		inv, kind, assetClass = p.InvPos, "Option", "Options"
	case *ofxgo.OptPosition:
		inv, kind, assetClass = p.InvPos, "Option", "Options"
	case ofxgo.OtherPosition:
		inv, kind, assetClass = p.InvPos, "Other", domain.DefaultAssetClass
	case *ofxgo.OtherPosition:
		inv, kind, assetClass = p.InvPos, "Other", domain.DefaultAssetClass
	default:
		return domain.Holding{}, false
	}

	id := string(inv.SecID.UniqueID)
	sec := securities[id]
	name := sec.name
	if name == "" {
		name = id
	}
	value, _ := inv.MktVal.Float64()
	units, _ := inv.Units.Float64()

	h := domain.Holding{
		Name:         name,
		Type:         kind,
		Value:        money.Round2(value),
		Shares:       units,
		AssetClasses: []string{assetClass},
	}
	if sec.ticker != "" {
		h.Description = sec.ticker
	}
	return h, true
}

func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagPattern.ReplaceAllString(content, "$1>")
}
