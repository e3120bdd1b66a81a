// Command pricecalc prices one item from the command line and prints the
// pricing matrix for the default markups.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"media-reseller-go/internal/domain"
	"media-reseller-go/internal/pricing"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pricecalc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pricecalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mediaType := fs.String("media-type", "dvd", "media type: video_game, dvd or music_cd")
	condition := fs.String("condition", "Acceptable", "condition: New, Very Good or Acceptable")
	cog := fs.String("cog", "1.00", "cost of goods")
	median := fs.String("median-price", "15.00", "median market price")
	markup := fs.String("markup", "0.10", "markup fraction for the single price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cogAmount, err := decimal.NewFromString(*cog)
	if err != nil {
		return fmt.Errorf("invalid -cog %q: %w", *cog, err)
	}
	medianAmount, err := decimal.NewFromString(*median)
	if err != nil {
		return fmt.Errorf("invalid -median-price %q: %w", *median, err)
	}
	markupFraction, err := decimal.NewFromString(*markup)
	if err != nil {
		return fmt.Errorf("invalid -markup %q: %w", *markup, err)
	}

	category := domain.ParseMediaCategory(*mediaType)
	if !category.Known() {
		return fmt.Errorf("unknown media type %q", *mediaType)
	}

	// Sub-margin warnings go to stderr next to the report
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.WarnLevel,
	))
	defer logger.Sync()

	engine := pricing.NewEngine(logger, pricing.WithDefaults(markupFraction, cogAmount))
	in := engine.NewInput(medianAmount, category, domain.NormalizeCondition(*condition, logger))

	result, err := engine.Price(in)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Pricing %s (%s)\n", in.Category, in.Condition)
	fmt.Fprintf(stdout, "  Cost of goods:  $%s\n", in.CostOfGoods.StringFixed(2))
	fmt.Fprintf(stdout, "  Median price:   $%s\n", in.MedianPrice.StringFixed(2))
	fmt.Fprintf(stdout, "  Shipping cost:  $%s\n", result.ShippingCost.StringFixed(2))
	fmt.Fprintf(stdout, "\nPricing at %s%% markup:\n", markupFraction.Mul(decimal.NewFromInt(100)).String())
	fmt.Fprintf(stdout, "  List price:   $%s\n", result.ListPrice.StringFixed(2))
	fmt.Fprintf(stdout, "  Auto-accept:  $%s (profit: $%s)\n",
		result.AutoAcceptPrice.StringFixed(2), result.ProfitAtAutoAccept.StringFixed(2))
	fmt.Fprintf(stdout, "  Minimum ask:  $%s (profit: $%s)\n",
		result.MinimumAskPrice.StringFixed(2), result.ProfitAtMinimum.StringFixed(2))
	fmt.Fprintf(stdout, "  Auto-accept meets $%s goal: %t\n",
		pricing.MinProfitMargin.StringFixed(2), result.MeetsMarginThreshold)

	matrix, err := engine.Matrix(in)
	if err != nil {
		return err
	}

	decimal.MarshalJSONWithoutQuotes = true
	fmt.Fprintln(stdout, "\nPricing matrix:")
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(matrix)
}
