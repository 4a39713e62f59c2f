// Command salario prints the net salary breakdown of one CLT payslip.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/Simplici0/salario/internal/config"
	"github.com/Simplici0/salario/internal/format"
	"github.com/Simplici0/salario/internal/insight"
	"github.com/Simplici0/salario/internal/logging"
	"github.com/Simplici0/salario/internal/payroll"
)

var log = logging.For("cli")

type report struct {
	GrossSalary       string `json:"grossSalary" yaml:"gross_salary"`
	Dependents        int    `json:"dependents" yaml:"dependents"`
	INSS              string `json:"inss" yaml:"inss"`
	INSSEffectiveRate string `json:"inssAliquotEffective" yaml:"inss_aliquot_effective"`
	IRRF              string `json:"irrf" yaml:"irrf"`
	IRRFEffectiveRate string `json:"irrfAliquotEffective" yaml:"irrf_aliquot_effective"`
	IRRFMethod        string `json:"irrfMethod" yaml:"irrf_method"`
	ItemizedIRRF      string `json:"itemizedIrrf" yaml:"itemized_irrf"`
	SimplifiedIRRF    string `json:"simplifiedIrrf" yaml:"simplified_irrf"`
	OtherDiscounts    string `json:"otherDiscounts" yaml:"other_discounts"`
	TotalDiscounts    string `json:"totalDiscounts" yaml:"total_discounts"`
	NetSalary         string `json:"netSalary" yaml:"net_salary"`
	Insight           string `json:"insight,omitempty" yaml:"insight,omitempty"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, nil); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "salario:", err)
		os.Exit(1)
	}
}

// run parses args and writes the report to out. explainer may be nil, in
// which case one is built from the environment when -insight is set.
func run(ctx context.Context, args []string, out io.Writer, explainer *insight.Explainer) error {
	fs := flag.NewFlagSet("salario", flag.ContinueOnError)
	gross := fs.String("bruto", "0", "salário bruto (R$)")
	dependents := fs.Int("dependentes", 0, "número de dependentes")
	other := fs.String("descontos", "0", "outros descontos (R$)")
	outFormat := fs.String("format", "text", "formato de saída: text, json ou yaml")
	withInsight := fs.Bool("insight", false, "gerar análise com IA (requer GEMINI_API_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grossValue, err := decimal.NewFromString(*gross)
	if err != nil {
		return fmt.Errorf("bruto deve ser numérico: %w", err)
	}
	otherValue, err := decimal.NewFromString(*other)
	if err != nil {
		return fmt.Errorf("descontos deve ser numérico: %w", err)
	}

	in := payroll.Input{GrossSalary: grossValue, Dependents: *dependents, OtherDiscounts: otherValue}.Clamped()
	res := payroll.Calculate(in)
	rep := newReport(in, res)

	if *withInsight {
		if explainer == nil {
			explainer = explainerFromEnv(ctx)
		}
		rep.Insight = explainer.Explain(ctx, in, res)
	}

	switch strings.ToLower(*outFormat) {
	case "text":
		return writeText(out, rep)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		raw, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = out.Write(raw)
		return err
	default:
		return fmt.Errorf("formato desconhecido %q", *outFormat)
	}
}

func explainerFromEnv(ctx context.Context) *insight.Explainer {
	cfg := config.Load()
	for _, w := range cfg.Warnings {
		log.Debug(w)
	}
	if !cfg.InsightEnabled() {
		return insight.NewExplainer(nil)
	}
	gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Error("failed to create gemini client")
		return insight.NewExplainer(nil)
	}
	return insight.NewExplainer(gemini, insight.WithTimeout(cfg.InsightTimeout))
}

func newReport(in payroll.Input, res payroll.Result) report {
	cmp := payroll.CompareMethods(in.GrossSalary, res.INSS, in.Dependents)
	return report{
		GrossSalary:       format.Currency(res.GrossSalary),
		Dependents:        in.Dependents,
		INSS:              format.Currency(res.INSS),
		INSSEffectiveRate: format.Percentage(res.INSSEffectiveRate),
		IRRF:              format.Currency(res.IRRF),
		IRRFEffectiveRate: format.Percentage(res.IRRFEffectiveRate),
		IRRFMethod:        string(res.IRRFMethod),
		ItemizedIRRF:      format.Currency(cmp.Itemized.Tax),
		SimplifiedIRRF:    format.Currency(cmp.Simplified.Tax),
		OtherDiscounts:    format.Currency(res.OtherDiscounts),
		TotalDiscounts:    format.Currency(res.TotalDiscounts),
		NetSalary:         format.Currency(res.NetSalary),
	}
}

func writeText(out io.Writer, rep report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Salário Bruto\t%s\n", rep.GrossSalary)
	fmt.Fprintf(tw, "Dependentes\t%d\n", rep.Dependents)
	fmt.Fprintf(tw, "INSS\t-%s\t(%s)\n", rep.INSS, rep.INSSEffectiveRate)
	fmt.Fprintf(tw, "IRRF\t-%s\t(%s, %s)\n", rep.IRRF, rep.IRRFEffectiveRate, rep.IRRFMethod)
	fmt.Fprintf(tw, "Outros Descontos\t-%s\n", rep.OtherDiscounts)
	fmt.Fprintf(tw, "Total Descontos\t%s\n", rep.TotalDiscounts)
	fmt.Fprintf(tw, "Salário Líquido\t%s\n", rep.NetSalary)
	if err := tw.Flush(); err != nil {
		return err
	}
	if rep.Insight != "" {
		_, err := fmt.Fprintf(out, "\n%s\n", rep.Insight)
		return err
	}
	return nil
}
