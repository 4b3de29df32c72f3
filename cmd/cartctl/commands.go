package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/dukerupert/storefront/internal/cartstore"
	"github.com/dukerupert/storefront/internal/shipping"
)

const usage = `usage: cartctl <command> [flags]

commands:
  show                          print the cart
  add -id ID [-name N -price P -stock S] [-qty Q] [-attr k=v]...
  update -id ID -qty Q [-attr k=v]...
  remove -id ID [-attr k=v]...
  clear                         remove every item
  coupon apply CODE | coupon remove
  shipping method NAME
  shipping address -name N -phone P -street S -city C -state S -country C [-email E -postal Z -notes N]
  summary                       print the totals summary
  options                       list shipping options for the cart
  logout                        discard the cart and return to guest mode`

var errUsage = errors.New(usage)

// app runs one cartctl command against a store.
type app struct {
	carts  *cartstore.Store
	rates  shipping.Provider
	out    io.Writer
	logger *slog.Logger
}

func (a *app) execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	a.logger.Debug("running command", "command", cmd)
	switch cmd {
	case "show":
		c, err := a.carts.Load(ctx)
		if err != nil {
			return describe(err)
		}
		return a.print(c)
	case "add":
		return a.add(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "remove":
		return a.remove(ctx, rest)
	case "clear":
		return a.result(a.carts.Clear(ctx))
	case "coupon":
		return a.coupon(ctx, rest)
	case "shipping":
		return a.shipping(ctx, rest)
	case "summary":
		s, err := a.carts.Summary(ctx)
		if err != nil {
			return describe(err)
		}
		return a.print(s)
	case "options":
		return a.options(ctx)
	case "logout":
		if err := a.carts.Logout(ctx); err != nil {
			return describe(err)
		}
		return a.print(map[string]string{"mode": string(a.carts.Mode())})
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
	}
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	var (
		id    = fs.String("id", "", "product id")
		name  = fs.String("name", "", "product name (guest carts)")
		price = fs.Float64("price", -1, "unit price (guest carts)")
		stock = fs.Int("stock", -1, "available stock, -1 when untracked")
		qty   = fs.Int("qty", 1, "quantity")
		attrs = attrFlag{}
	)
	fs.Var(attrs, "attr", "variant attribute key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Without catalog data the line must already exist or the server must know the product.
	if *price < 0 {
		return a.result(a.carts.Add(ctx, cart.AddItemInput{
			ProductID:  *id,
			Quantity:   *qty,
			Attributes: cart.Attributes(attrs),
		}))
	}

	product := cart.Raw{"_id": *id, "name": *name, "price": *price}
	if *stock >= 0 {
		product["stock"] = *stock
	}
	return a.result(a.carts.AddProduct(ctx, product, *qty, cart.Attributes(attrs)))
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	var (
		id    = fs.String("id", "", "product id")
		qty   = fs.Int("qty", 0, "new quantity")
		attrs = attrFlag{}
	)
	fs.Var(attrs, "attr", "variant attribute key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.result(a.carts.Update(ctx, cart.UpdateQuantityInput{
		ProductID:  *id,
		Quantity:   *qty,
		Attributes: cart.Attributes(attrs),
	}))
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := newFlagSet("remove")
	var (
		id    = fs.String("id", "", "product id")
		attrs = attrFlag{}
	)
	fs.Var(attrs, "attr", "variant attribute key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.result(a.carts.Remove(ctx, *id, cart.Attributes(attrs)))
}

func (a *app) coupon(ctx context.Context, args []string) error {
	switch {
	case len(args) == 2 && args[0] == "apply":
		return a.result(a.carts.ApplyCoupon(ctx, args[1]))
	case len(args) == 1 && args[0] == "remove":
		return a.result(a.carts.RemoveCoupon(ctx))
	}
	return errUsage
}

func (a *app) shipping(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "method":
		if len(args) != 2 {
			return errUsage
		}
		return a.result(a.carts.SetShippingMethod(ctx, args[1]))
	case "address":
		fs := newFlagSet("shipping address")
		var addr cart.ShippingAddress
		fs.StringVar(&addr.FullName, "name", "", "recipient full name")
		fs.StringVar(&addr.Email, "email", "", "contact email")
		fs.StringVar(&addr.Phone, "phone", "", "contact phone")
		fs.StringVar(&addr.Street, "street", "", "street address")
		fs.StringVar(&addr.City, "city", "", "city")
		fs.StringVar(&addr.State, "state", "", "state or department")
		fs.StringVar(&addr.PostalCode, "postal", "", "postal code")
		fs.StringVar(&addr.Country, "country", "", "country")
		fs.StringVar(&addr.Notes, "notes", "", "delivery notes")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.result(a.carts.SetShippingAddress(ctx, addr))
	}
	return errUsage
}

func (a *app) options(ctx context.Context) error {
	c, err := a.carts.Load(ctx)
	if err != nil {
		return describe(err)
	}
	rates, err := a.rates.GetRates(ctx, shipping.RateParams{
		Subtotal:    c.Subtotal,
		Destination: c.ShippingAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to list shipping options: %w", err)
	}
	return a.print(rates)
}

func (a *app) result(c cart.Cart, err error) error {
	if err != nil {
		return describe(err)
	}
	return a.print(c)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe renders a cart error with its user-facing message and any
// field details.
func describe(err error) error {
	var valErr *cart.CartValidationError
	if errors.As(err, &valErr) && len(valErr.Fields) > 0 {
		fields := make([]string, 0, len(valErr.Fields))
		for k, v := range valErr.Fields {
			fields = append(fields, k+": "+v)
		}
		slices.Sort(fields)
		return fmt.Errorf("%s [%s] (%s)", cart.ErrorMessage(err), cart.ErrorCode(err), strings.Join(fields, "; "))
	}
	return fmt.Errorf("%s [%s]", cart.ErrorMessage(err), cart.ErrorCode(err))
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// attrFlag collects repeated key=value flags.
type attrFlag map[string]string

func (f attrFlag) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f attrFlag) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("attribute %q must be key=value", value)
	}
	f[k] = v
	return nil
}
