// Package bot implements the Telegram front end: one authorized user
// records expenses by message and queries them by command.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/services"
	"despesas/internal/storage"
)

// ExpenseRecorder is the slice of the expense service the handlers use.
type ExpenseRecorder interface {
	Create(ctx context.Context, e core.Expense) (int64, error)
	UndoLast(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]core.Expense, error)
	HealthCheck(ctx context.Context) error
}

// Reporter resolves the current billing cycle and its running total.
type Reporter interface {
	Summary(ctx context.Context, today time.Time) (services.CycleSummary, error)
}

// Reply is a rendered bot response with its Telegram parse mode.
type Reply struct {
	Text string
	Mode string // "", "HTML" or "MarkdownV2"
}

const recentLimit = 5

var monthNames = [...]string{
	"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Handler renders every bot response. It is transport-agnostic so the
// replies can be tested without a Telegram connection.
type Handler struct {
	expenses      ExpenseRecorder
	reports       Reporter
	parser        *core.Parser
	taxonomy      *core.Taxonomy
	allowedUserID int64
	now           func() time.Time
	logger        *log.Logger
}

func NewHandler(expenses ExpenseRecorder, reports Reporter, parser *core.Parser, taxonomy *core.Taxonomy, allowedUserID int64, logger *log.Logger) *Handler {
	return &Handler{
		expenses:      expenses,
		reports:       reports,
		parser:        parser,
		taxonomy:      taxonomy,
		allowedUserID: allowedUserID,
		now:           time.Now,
		logger:        logger,
	}
}

// Authorized reports whether userID may use the bot. An unconfigured
// allow-list denies everyone.
func (h *Handler) Authorized(userID int64) bool {
	if h.allowedUserID <= 0 {
		h.logger.Error("allowed user id not configured, denying all access")
		return false
	}
	return userID == h.allowedUserID
}

// Unauthorized is the reply sent to anyone not on the allow-list.
func (h *Handler) Unauthorized() Reply {
	return Reply{Text: "Usuário não autorizado."}
}

// Help renders the usage instructions with the accepted values.
func (h *Handler) Help() Reply {
	var b strings.Builder
	b.WriteString("<b>Como lançar um gasto?</b>\n")
	b.WriteString("Use 5 ou 6 partes, nesta ordem, separadas por '-', ';', '|' ou ',':\n")
	b.WriteString("<b>Valor - Descrição - Método - Tag - Categoria [- Parcelas]</b>\n\n")
	b.WriteString("• Valor: número em BRL (ex.: 35,50)\n")
	b.WriteString("• Descrição: texto livre\n")
	fmt.Fprintf(&b, "• Método: {%s}\n", strings.Join(h.taxonomy.Methods(), " | "))
	fmt.Fprintf(&b, "• Tag: {%s}\n", strings.Join(h.taxonomy.Tags(), " | "))
	fmt.Fprintf(&b, "• Categoria: {%s}\n", strings.Join(h.taxonomy.Categories(), " | "))
	b.WriteString("• Parcelas (opcional): número inteiro (ex.: 3)\n\n")
	b.WriteString("<b>Comandos:</b>\n")
	b.WriteString("/last: Mostra os 5 últimos lançamentos\n")
	b.WriteString("/undo: Apaga o último lançamento\n")
	b.WriteString("/health: Testa a conexão com o banco\n")
	b.WriteString("/balance: Total gasto no ciclo atual (mês e período)\n")
	b.WriteString("/help: Exibe esta ajuda")
	return Reply{Text: b.String(), Mode: "HTML"}
}

// Health checks the database connection and reports the result.
func (h *Handler) Health(ctx context.Context) Reply {
	if err := h.expenses.HealthCheck(ctx); err != nil {
		h.logger.Error("health check failed", log.FieldError, err)
		return Reply{Text: "💥 Banco indisponível"}
	}
	return Reply{Text: "✅ Banco OK"}
}

// Undo deletes the most recent expense.
func (h *Handler) Undo(ctx context.Context) Reply {
	id, err := h.expenses.UndoLast(ctx)
	if errors.Is(err, storage.ErrEmpty) {
		return Reply{Text: "Nada para remover."}
	}
	if err != nil {
		h.logger.Error("undo failed", log.FieldError, err)
		return Reply{Text: "💥 Ocorreu um erro inesperado ao processar sua solicitação."}
	}
	return Reply{Text: fmt.Sprintf("Último lançamento removido (#%d).", id)}
}

// Recent renders the last entries as a monospace table.
func (h *Handler) Recent(ctx context.Context) Reply {
	expenses, err := h.expenses.Recent(ctx, recentLimit)
	if err != nil {
		h.logger.Error("recent lookup failed", log.FieldError, err)
		return Reply{Text: "💥 Ocorreu um erro inesperado ao processar sua solicitação."}
	}
	if len(expenses) == 0 {
		return Reply{Text: "Nenhum lançamento encontrado."}
	}

	headers := []string{"Data", "Valor", "Descrição"}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Timestamp.Format("02/01/2006 15:04"),
			core.FormatBRL(e.Amount),
			e.Description,
		})
	}

	table := renderTable(headers, rows)
	text := fmt.Sprintf("*Últimos 5 Lançamentos:*\n\n```\n%s\n```", table)
	return Reply{Text: text, Mode: "MarkdownV2"}
}

// Balance reports the running total of the current billing cycle.
func (h *Handler) Balance(ctx context.Context) Reply {
	summary, err := h.reports.Summary(ctx, h.now())
	if err != nil {
		h.logger.Error("summary failed", log.FieldError, err)
		return Reply{Text: "💥 Ocorreu um erro inesperado ao processar sua solicitação."}
	}

	invoiceMonth := int(summary.Cycle.End.Month())
	text := fmt.Sprintf(
		"<b>📊 Balanço do Ciclo Atual</b>\n\n"+
			"• Mês da fatura: <b>%s</b> (%d)\n"+
			"• Período: <b>%s</b> a <b>%s</b>\n"+
			"• Gasto até hoje: <b>%s</b>",
		monthNames[invoiceMonth], invoiceMonth,
		summary.Cycle.Start.Format("02/01/2006"), summary.Cycle.End.Format("02/01/2006"),
		core.FormatBRL(summary.Spent),
	)
	return Reply{Text: text, Mode: "HTML"}
}

// Entry parses a free-text expense message, records it and confirms.
// Parse errors come back to the user verbatim, prefixed with a warning
// sign.
func (h *Handler) Entry(ctx context.Context, text string) Reply {
	expense, err := h.parser.Parse(text)
	if core.IsFormat(err) || core.IsValidation(err) {
		return Reply{Text: fmt.Sprintf("⚠️ %s", err)}
	}
	if err != nil {
		h.logger.Error("unexpected parse failure", log.FieldError, err)
		return Reply{Text: "💥 Ocorreu um erro inesperado ao processar sua solicitação."}
	}

	id, err := h.expenses.Create(ctx, expense)
	if err != nil {
		h.logger.Error("create failed", log.FieldError, err)
		return Reply{Text: "💥 Ocorreu um erro inesperado ao processar sua solicitação."}
	}

	lines := []string{
		fmt.Sprintf("%s: %d", padLabel("ID"), id),
		fmt.Sprintf("%s: %s", padLabel("Valor"), escapeMarkdownV2(core.FormatBRL(expense.Amount))),
		fmt.Sprintf("%s: %s", padLabel("Descrição"), escapeMarkdownV2(expense.Description)),
		fmt.Sprintf("%s: %s", padLabel("Tag"), escapeMarkdownV2(expense.Tag)),
		fmt.Sprintf("%s: %s", padLabel("Categoria"), escapeMarkdownV2(expense.Category)),
		fmt.Sprintf("%s: %s", padLabel("Método"), escapeMarkdownV2(expense.Method)),
	}
	if expense.Installments > 0 {
		lines = append(lines, fmt.Sprintf("%s: %dx", padLabel("Parcelas"), expense.Installments))
	}

	body := strings.Join(lines, "\n")
	return Reply{
		Text: fmt.Sprintf("✅ Lançamento Registrado\n\n```\n%s\n```", body),
		Mode: "MarkdownV2",
	}
}

// renderTable lays out rows under headers with every column padded to
// its widest cell.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, hd := range headers {
		widths[i] = utf8.RuneCountInString(hd)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-utf8.RuneCountInString(s))
	}

	var lines []string
	headerCells := make([]string, len(headers))
	sepCells := make([]string, len(headers))
	for i, hd := range headers {
		headerCells[i] = pad(hd, widths[i])
		sepCells[i] = strings.Repeat("-", widths[i])
	}
	lines = append(lines, strings.Join(headerCells, " | "), strings.Join(sepCells, "-+-"))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}

// padLabel left-aligns a confirmation label in an 11-rune column.
func padLabel(label string) string {
	if n := utf8.RuneCountInString(label); n < 11 {
		return label + strings.Repeat(" ", 11-n)
	}
	return label
}

var markdownV2Escapes = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

// escapeMarkdownV2 escapes Telegram MarkdownV2 metacharacters.
func escapeMarkdownV2(s string) string {
	return markdownV2Escapes.Replace(s)
}
