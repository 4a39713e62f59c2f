package insight

import (
	"strings"
	"text/template"

	"github.com/Simplici0/salario/internal/format"
	"github.com/Simplici0/salario/internal/payroll"
)

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"brl": format.Currency,
	"pct": format.Percentage,
}).Parse(`Aja como um contador especialista e consultor financeiro brasileiro.
Analise o seguinte cálculo salarial para um funcionário CLT:

DADOS:
- Salário Bruto: {{ brl .Result.GrossSalary }}
- Dependentes: {{ .Input.Dependents }}
- Desconto INSS: {{ brl .Result.INSS }} (Alíquota Efetiva: {{ pct .Result.INSSEffectiveRate }})
- Desconto IRRF: {{ brl .Result.IRRF }} (Alíquota Efetiva: {{ pct .Result.IRRFEffectiveRate }})
- Outros Descontos: {{ brl .Result.OtherDiscounts }}
- Salário Líquido Final: {{ brl .Result.NetSalary }}

TAREFA:
1. Explique brevemente, em linguagem simples, para onde está indo o dinheiro (INSS é aposentadoria, IRRF é imposto, etc).
2. Dê uma dica financeira rápida baseada no salário líquido (ex: regra 50/30/20 ou reserva de emergência).
3. Se o imposto de renda for alto, mencione brevemente se há algo que possa ser feito (ex: dependentes, gastos médicos na declaração anual).

Mantenha a resposta concisa, amigável e formatada com markdown simples (negrito/listas). Máximo de 200 palavras.
`))

// BuildPrompt renders the generation prompt for one calculation.
func BuildPrompt(in payroll.Input, res payroll.Result) (string, error) {
	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Input  payroll.Input
		Result payroll.Result
	}{in, res})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
