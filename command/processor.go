// Package command parses chat text into watch-list queries and mutations.
package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/manivija/tokenwatch/core"
	"github.com/samber/lo"
)

const defaultHistoryCount = 10

var (
	priceRegexp   = regexp.MustCompile(`(?i)^price\s+(?P<symbol>\S+)$`)
	addRegexp     = regexp.MustCompile(`(?i)^add\s+(?P<symbol>\S+)\s+(?P<id>\S+)(?P<bounds>(?:\s+\S+=\S+)*)$`)
	showRegexp    = regexp.MustCompile(`(?i)^show\s+(?P<symbol>\S+)$`)
	removeRegexp  = regexp.MustCompile(`(?i)^remove\s+(?P<symbol>\S+)$`)
	historyRegexp = regexp.MustCompile(`(?i)^history(?:\s+(?P<count>\d+))?$`)
)

const helpText = `🤖 Available Commands:
• price SYMBOL — Get the current price (e.g. price SOL)
• list — Show all tracked tokens
• show SYMBOL — View full details of a token
• add SYMBOL ID [lower=XX] [upper=YY] — Add a new token to monitor
• remove SYMBOL — Stop monitoring a token
• history [N] — Show the last fired alerts
• help — Show this help message

ℹ️ How to find a token's ID:
1. Go to https://www.coingecko.com
2. Search for the token name
3. Click the result
4. Copy the part after /coins/ in the URL (that's the ID)

Example:
add SOL solana lower=180 upper=220`

// Processor turns one line of chat text into reply lines. It is transport
// agnostic; the Telegram layer feeds messages in and sends the replies
// back. Every command loads the watch-list fresh through the store and
// mutating commands persist inside the store's critical section, so a
// command can never race a Monitor cycle. All failures become replies,
// never errors to the caller.
type Processor struct {
	store   core.WatchStore
	oracle  core.PriceOracle
	history core.AlertLog
	log     core.Logger
}

// NewProcessor creates a command processor.
func NewProcessor(store core.WatchStore, oracle core.PriceOracle, history core.AlertLog, log core.Logger) *Processor {
	return &Processor{
		store:   store,
		oracle:  oracle,
		history: history,
		log:     log,
	}
}

// Process handles a single inbound message and returns the replies to send.
func (p *Processor) Process(ctx context.Context, text string) []string {
	msg := strings.TrimSpace(text)
	keyword := strings.ToLower(msg)

	switch {
	case keyword == "list":
		return p.list(ctx)
	case keyword == "help":
		return []string{helpText}
	case priceRegexp.MatchString(msg):
		return p.price(ctx, extractCommandParams(priceRegexp, priceRegexp.FindStringSubmatch(msg)))
	case addRegexp.MatchString(msg):
		return p.add(ctx, extractCommandParams(addRegexp, addRegexp.FindStringSubmatch(msg)))
	case keyword == "add" || strings.HasPrefix(keyword, "add "):
		return []string{"⚠️ Format: add SYMBOL ID [lower=XX] [upper=YY]"}
	case showRegexp.MatchString(msg):
		return p.show(ctx, extractCommandParams(showRegexp, showRegexp.FindStringSubmatch(msg)))
	case removeRegexp.MatchString(msg):
		return p.remove(ctx, extractCommandParams(removeRegexp, removeRegexp.FindStringSubmatch(msg)))
	case historyRegexp.MatchString(msg):
		return p.recentAlerts(ctx, extractCommandParams(historyRegexp, historyRegexp.FindStringSubmatch(msg)))
	default:
		return []string{"❓ Unknown command. Type help to see available commands."}
	}
}

// list replies with the tracked symbols in insertion order.
func (p *Processor) list(ctx context.Context) []string {
	targets, err := p.store.Load(ctx)
	if err != nil {
		return p.storeFailure(err)
	}

	watchList := core.NewWatchList(targets)
	if watchList.Len() == 0 {
		return []string{"📭 No tokens are being tracked right now."}
	}

	lines := lo.Map(watchList.Symbols(), func(symbol string, _ int) string {
		return "• " + symbol
	})

	return []string{"📄 Currently tracking:\n" + strings.Join(lines, "\n")}
}

// price replies with a live quote for a tracked symbol.
func (p *Processor) price(ctx context.Context, params map[string]string) []string {
	symbol := strings.ToUpper(params["symbol"])

	targets, err := p.store.Load(ctx)
	if err != nil {
		return p.storeFailure(err)
	}

	target, err := core.NewWatchList(targets).Find(symbol)
	if errors.Is(err, core.ErrSymbolNotFound) {
		return []string{fmt.Sprintf("❓ Symbol '%s' not found in the watch-list.", symbol)}
	}

	price, ok := p.oracle.GetPrice(ctx, target.ID)
	if !ok {
		return []string{"⚠️ Could not fetch price."}
	}

	return []string{fmt.Sprintf("💰 %s price: $%.5f", symbol, price)}
}

// add appends a new target, rejecting duplicates and malformed bounds
// before any state is touched.
func (p *Processor) add(ctx context.Context, params map[string]string) []string {
	symbol := strings.ToUpper(params["symbol"])
	id := strings.ToLower(params["id"])

	bounds, reply := parseBounds(params["bounds"])
	if reply != "" {
		return []string{reply}
	}

	target := core.Target{Symbol: symbol, ID: id, Bounds: bounds}

	err := p.store.Update(ctx, func(targets []core.Target) ([]core.Target, bool, error) {
		watchList := core.NewWatchList(targets)
		if err := watchList.Add(target); err != nil {
			return nil, false, err
		}
		return watchList.Targets(), true, nil
	})

	switch {
	case errors.Is(err, core.ErrDuplicateSymbol):
		return []string{fmt.Sprintf("❗ Token %s already exists.", symbol)}
	case err != nil:
		return p.storeFailure(err)
	}

	description := ""
	if !bounds.Empty() {
		described := make([]string, 0, 2)
		if bounds.Lower != nil {
			described = append(described, fmt.Sprintf("lower=%g", *bounds.Lower))
		}
		if bounds.Upper != nil {
			described = append(described, fmt.Sprintf("upper=%g", *bounds.Upper))
		}
		description = " with bounds " + strings.Join(described, ", ")
	}

	return []string{fmt.Sprintf("✅ Added %s (%s)%s", symbol, id, description)}
}

// show replies with the full details of a tracked symbol.
func (p *Processor) show(ctx context.Context, params map[string]string) []string {
	symbol := strings.ToUpper(params["symbol"])

	targets, err := p.store.Load(ctx)
	if err != nil {
		return p.storeFailure(err)
	}

	target, err := core.NewWatchList(targets).Find(symbol)
	if errors.Is(err, core.ErrSymbolNotFound) {
		return []string{fmt.Sprintf("❓ Symbol '%s' not found.", symbol)}
	}

	lines := []string{
		fmt.Sprintf("🔎 %s details:", symbol),
		fmt.Sprintf("• ID: %s", target.ID),
	}

	if target.Bounds.Empty() {
		lines = append(lines, "• No bounds set")
	} else {
		if target.Bounds.Lower != nil {
			lines = append(lines, fmt.Sprintf("• Lower Bound: $%g", *target.Bounds.Lower))
		}
		if target.Bounds.Upper != nil {
			lines = append(lines, fmt.Sprintf("• Upper Bound: $%g", *target.Bounds.Upper))
		}
	}

	return []string{strings.Join(lines, "\n")}
}

// remove deletes a tracked symbol.
func (p *Processor) remove(ctx context.Context, params map[string]string) []string {
	symbol := strings.ToUpper(params["symbol"])

	err := p.store.Update(ctx, func(targets []core.Target) ([]core.Target, bool, error) {
		watchList := core.NewWatchList(targets)
		if err := watchList.Remove(symbol); err != nil {
			return nil, false, err
		}
		return watchList.Targets(), true, nil
	})

	switch {
	case errors.Is(err, core.ErrSymbolNotFound):
		return []string{fmt.Sprintf("❌ Symbol '%s' was not found.", symbol)}
	case err != nil:
		return p.storeFailure(err)
	}

	return []string{fmt.Sprintf("🗑️ Removed %s from tracking.", symbol)}
}

// recentAlerts replies with the last fired alerts.
func (p *Processor) recentAlerts(ctx context.Context, params map[string]string) []string {
	count := defaultHistoryCount
	if params["count"] != "" {
		count, _ = strconv.Atoi(params["count"])
	}

	alerts, err := p.history.Recent(ctx, count)
	if err != nil {
		p.log.WithError(err).Error("failed to read alert history")
		return []string{"⚠️ Could not read the alert history."}
	}

	if len(alerts) == 0 {
		return []string{"🕘 No alerts have fired yet."}
	}

	lines := lo.Map(alerts, func(alert core.Alert, _ int) string {
		return fmt.Sprintf("• %s — %s", alert.At.Format("2006-01-02 15:04"), alert.Message())
	})

	return []string{"🕘 Last fired alerts:\n" + strings.Join(lines, "\n")}
}

func (p *Processor) storeFailure(err error) []string {
	p.log.WithError(err).Error("watch-list store operation failed")
	return []string{"⚠️ Could not access the watch-list."}
}

// parseBounds parses the trailing key=value pairs of an add command. Only
// lower and upper are accepted; a malformed value or unknown key aborts
// the command with a reply naming the offender.
func parseBounds(raw string) (*core.Bounds, string) {
	bounds := &core.Bounds{}

	for _, pair := range strings.Fields(raw) {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.ToLower(key)

		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Sprintf("⚠️ Invalid value for %s: %s", key, value)
		}

		switch key {
		case "lower":
			bounds.Lower = &number
		case "upper":
			bounds.Upper = &number
		default:
			return nil, fmt.Sprintf("⚠️ Unknown bound '%s' (use lower or upper)", key)
		}
	}

	if bounds.Empty() {
		return nil, ""
	}

	return bounds, ""
}

// extractCommandParams extracts named groups from a regex match.
func extractCommandParams(regex *regexp.Regexp, match []string) map[string]string {
	command := make(map[string]string)
	for i, name := range regex.SubexpNames() {
		if i != 0 && name != "" && i < len(match) {
			command[name] = match[i]
		}
	}
	return command
}
