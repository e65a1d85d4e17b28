// Package app wires the CLI: configuration, the API client, the state
// store, and the subcommand dispatch.
package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/Ejaz0000/bike-gear-client/internal/checkout"
	"github.com/Ejaz0000/bike-gear-client/internal/client"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/order"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
	"github.com/Ejaz0000/bike-gear-client/internal/session"
	"github.com/Ejaz0000/bike-gear-client/internal/store"
	"github.com/Ejaz0000/bike-gear-client/pkg/debounce"
	"github.com/Ejaz0000/bike-gear-client/pkg/health"
)

const usage = `usage: storefront <command> [args]

catalog:
  products [-category C] [-brand B] [-page N]   list products
  product <slug>                                show one product
  search [-watch] <query>                       search the catalog
  categories                                    list categories
  brands                                        list brands

cart:
  cart                                          show the cart
  cart-add [-product ID | -variant ID] [-qty N] add an item
  cart-update <item-id> <qty>                   change a line quantity
  cart-remove <item-id>                         remove a line
  cart-clear                                    empty the cart

account:
  login <email>                                 sign in (password from stdin)
  logout                                        sign out
  profile                                       show the profile
  orders                                        list orders
  order <number>                                show one order

checkout:
  checkout                                      interactive checkout

other:
  status                                        probe API reachability
`

// App carries the wired dependencies for one CLI invocation.
type App struct {
	cfg   *Config
	lg    *zap.Logger
	api   *client.Client
	store *store.Store
}

// Run dispatches one CLI invocation.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	api, err := client.New(client.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Tokens:    session.NewFileTokenStore(cfg.TokenFile),
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return err
	}

	a := &App{cfg: cfg, lg: lg, api: api, store: store.New()}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return a.cmdProducts(ctx, rest)
	case "product":
		return a.cmdProduct(ctx, rest)
	case "search":
		return a.cmdSearch(ctx, rest)
	case "categories":
		return a.cmdCategories(ctx)
	case "brands":
		return a.cmdBrands(ctx)
	case "cart":
		return a.cmdCart(ctx)
	case "cart-add":
		return a.cmdCartAdd(ctx, rest)
	case "cart-update":
		return a.cmdCartUpdate(ctx, rest)
	case "cart-remove":
		return a.cmdCartRemove(ctx, rest)
	case "cart-clear":
		return a.api.ClearCart(ctx)
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.api.Logout()
	case "profile":
		return a.cmdProfile(ctx)
	case "orders":
		return a.cmdOrders(ctx)
	case "order":
		return a.cmdOrder(ctx, rest)
	case "checkout":
		return a.cmdCheckout(ctx)
	case "status":
		return a.cmdStatus(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func (a *App) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	var f client.ProductFilters
	fs.StringVar(&f.Category, "category", "", "category slug")
	fs.StringVar(&f.Brand, "brand", "", "brand slug")
	fs.StringVar(&f.Search, "search", "", "free-text filter")
	fs.StringVar(&f.Ordering, "ordering", "", "sort order")
	fs.BoolVar(&f.OnSale, "on-sale", false, "only discounted products")
	fs.BoolVar(&f.IsFeatured, "featured", false, "only featured products")
	fs.IntVar(&f.Page, "page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	page, err := a.api.Products(ctx, f)
	if err != nil {
		return err
	}
	for _, p := range page.Items {
		fmt.Printf("%-40s %-30s %s\n", p.Name, p.Slug, order.FormatTaka(p.EffectivePrice()))
	}
	if page.TotalPages > 1 {
		fmt.Printf("page %d of %d (%d products)\n", page.Page, page.TotalPages, page.Total)
	}
	return nil
}

func (a *App) cmdProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: product <slug>")
	}
	p, err := a.api.ProductBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", p.Name, order.FormatTaka(p.EffectivePrice()))
	for _, v := range p.Variants {
		fmt.Printf("  variant %d  %s  %s\n", v.ID, v.SKU, order.FormatTaka(v.Price))
	}
	return nil
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "read queries from stdin, debounced")
	typ := fs.String("type", "", "restrict to product, category or brand")
	if err := fs.Parse(args); err != nil {
		return err
	}

	run := func(query string) {
		page, err := a.api.Search(ctx, query, *typ)
		if err != nil {
			a.lg.Warn("search failed", zap.String("query", query), zap.Error(err))
			return
		}
		for _, p := range page.Items {
			fmt.Printf("%-40s %s\n", p.Name, p.Slug)
		}
	}

	if !*watch {
		if fs.NArg() == 0 {
			return errors.New("usage: search <query>")
		}
		run(strings.Join(fs.Args(), " "))
		return nil
	}

	// Watch mode mirrors the storefront's search box: each keystroke line
	// resets the timer and only the final query runs.
	d := debounce.New(a.cfg.Search.Debounce)
	defer d.Stop()
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		query := strings.TrimSpace(sc.Text())
		if query == "" {
			continue
		}
		d.Do(func() { run(query) })
	}
	return sc.Err()
}

func (a *App) cmdCategories(ctx context.Context) error {
	cats, err := a.api.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		fmt.Printf("%-30s %s\n", c.Name, c.Slug)
	}
	return nil
}

func (a *App) cmdBrands(ctx context.Context) error {
	brands, err := a.api.Brands(ctx)
	if err != nil {
		return err
	}
	for _, b := range brands {
		fmt.Printf("%-30s %s\n", b.Name, b.Slug)
	}
	return nil
}

func (a *App) cmdCart(ctx context.Context) error {
	a.store.CartPending()
	crt, err := a.api.Cart(ctx)
	if err != nil {
		a.store.CartRejected(err)
		return err
	}
	a.store.CartFulfilled(crt)

	if crt.IsEmpty() {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range crt.Items {
		fmt.Printf("%4d x %-40s %s\n", item.Quantity, item.Title(), order.FormatTaka(item.LineTotal()))
	}
	s := crt.Summary
	fmt.Printf("\nsubtotal  %s\n", order.FormatTaka(s.Subtotal))
	if s.TotalSavings.IsPositive() {
		fmt.Printf("savings   %s\n", order.FormatTaka(s.TotalSavings))
	}
	if s.Shipping.IsPositive() {
		fmt.Printf("shipping  %s\n", order.FormatTaka(s.Shipping))
	}
	fmt.Printf("total     %s\n", order.FormatTaka(s.GrandTotal))
	return nil
}

func (a *App) cmdCartAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ContinueOnError)
	var p client.AddItemParams
	fs.Int64Var(&p.VariantID, "variant", 0, "variant ID")
	fs.Int64Var(&p.ProductID, "product", 0, "product ID")
	fs.IntVar(&p.Quantity, "qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	crt, err := a.api.AddItem(ctx, p)
	if err != nil {
		return err
	}
	fmt.Printf("added, cart now has %d items\n", crt.Summary.TotalItems)
	return nil
}

func (a *App) cmdCartUpdate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: cart-update <item-id> <qty>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse item id")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrap(err, "parse quantity")
	}
	_, err = a.api.UpdateItem(ctx, id, qty)
	return err
}

func (a *App) cmdCartRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: cart-remove <item-id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse item id")
	}
	return a.api.RemoveItem(ctx, id)
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <email>")
	}
	fmt.Fprint(os.Stderr, "password: ")
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return errors.New("no password given")
	}

	u, err := a.api.Login(ctx, forms.Login{Email: args[0], Password: sc.Text()})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", u.Name)
	return nil
}

func (a *App) cmdProfile(ctx context.Context) error {
	u, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> %s\n", u.Name, u.Email, u.Phone)
	for _, addr := range u.Addresses {
		def := ""
		if addr.IsDefaultBilling {
			def += " [default billing]"
		}
		if addr.IsDefaultShipping {
			def += " [default shipping]"
		}
		fmt.Printf("  #%d %s, %s, %s %s%s\n", addr.ID, addr.Street, addr.City, addr.PostalCode, addr.Country, def)
	}
	return nil
}

func (a *App) cmdOrders(ctx context.Context) error {
	orders, err := a.api.Orders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%-14s %-10s %-8s %s\n", o.OrderNumber, o.Status, o.PaymentStatus, order.FormatTaka(o.TotalPrice))
	}
	return nil
}

func (a *App) cmdOrder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: order <number>")
	}
	o, err := a.api.OrderByNumber(ctx, args[0])
	if err != nil {
		return err
	}
	conf := order.Confirmation{Order: *o}
	for _, line := range conf.Receipt() {
		fmt.Println(line)
	}
	return nil
}

// cmdCheckout walks the three checkout steps on the terminal, prompting for
// each form and submitting it through the same flow the storefront uses.
func (a *App) cmdCheckout(ctx context.Context) error {
	if u, err := a.api.Profile(ctx); err == nil {
		a.store.UserFulfilled(u)
	}

	sess := checkout.NewSession(a.api, a.store)
	if u := a.store.User().User; u != nil {
		sess.Prefill(u)
	}

	in := bufio.NewScanner(os.Stdin)
	prompt := func(label string) string {
		fmt.Printf("%s: ", label)
		if !in.Scan() {
			return ""
		}
		return strings.TrimSpace(in.Text())
	}

	details := forms.UserDetails{
		Name:  prompt("name"),
		Email: prompt("email"),
		Phone: prompt("phone"),
	}
	if err := sess.SubmitDetails(ctx, details); err != nil {
		return err
	}

	billing := promptAddress(prompt, "billing")
	same := strings.EqualFold(prompt("use billing as shipping [y/N]"), "y")
	var shipping forms.Address
	if !same {
		shipping = promptAddress(prompt, "shipping")
	}
	if err := sess.SubmitAddresses(ctx, billing, shipping, same); err != nil {
		return err
	}

	confirmURL, err := sess.SubmitOrder(ctx)
	if err != nil {
		return err
	}
	conf, err := order.ParseConfirmation(confirmURL)
	if err != nil {
		return err
	}
	fmt.Println()
	for _, line := range conf.Receipt() {
		fmt.Println(line)
	}
	if conf.TrackOrderVisible() {
		fmt.Printf("track with: storefront order %s\n", conf.Order.OrderNumber)
	}
	return nil
}

func promptAddress(prompt func(string) string, kind string) forms.Address {
	return forms.Address{
		Phone:        prompt(kind + " phone"),
		AddressLine1: prompt(kind + " street"),
		City:         prompt(kind + " city"),
		State:        prompt(kind + " state"),
		PostalCode:   prompt(kind + " postal code"),
		Country:      prompt(kind + " country"),
	}
}

// cmdStatus probes the public catalog endpoints once and prints each
// result.
func (a *App) cmdStatus(ctx context.Context) error {
	probe := &http.Client{Timeout: a.cfg.Health.Timeout}
	base := strings.TrimSuffix(a.cfg.BaseURL, "/")

	m := health.NewMonitor()
	m.AddCheck("products", a.cfg.Health.Timeout, health.EndpointCheck(probe, base+"/products/"))
	m.AddCheck("categories", a.cfg.Health.Timeout, health.EndpointCheck(probe, base+"/categories/"))
	m.AddCheck("brands", a.cfg.Health.Timeout, health.EndpointCheck(probe, base+"/brands/"))
	m.RunOnce(ctx)

	// A single probe is not enough to trip the consecutive-failure
	// threshold, so key off the last error rather than the healthy flag.
	failed := false
	for name, st := range m.Snapshot() {
		state := "ok"
		if st.Error != "" {
			failed = true
			state = "unreachable (" + st.Error + ")"
		}
		fmt.Printf("%-12s %s\n", name, state)
	}
	if failed {
		return errors.New("one or more endpoints unreachable")
	}
	return nil
}
