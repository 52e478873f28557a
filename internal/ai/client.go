package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-resty/resty/v2"

	"condo-maintain-backend/config"
	"condo-maintain-backend/internal/model"
)

// Client talks to the external text-generation service used for
// engineering analyses and report summaries. The service is opaque: a
// prompt goes in, text comes out. Failures degrade to canned fallback
// strings so offline operation is never blocked on it.
type Client struct {
	cfg  *config.AIConfig
	http *resty.Client
}

// NewClient creates the text-service client. A disabled config yields a
// client whose calls return the fallback strings immediately.
func NewClient(cfg *config.AIConfig) *Client {
	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		r.SetAuthToken(cfg.APIKey)
	}
	return &Client{cfg: cfg, http: r}
}

// Enabled reports whether the text service is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.BaseURL != ""
}

type generateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{Model: c.cfg.Model, Prompt: prompt, MaxTokens: maxTokens}).
		SetResult(&out).
		Post("/v1/generate")
	if err != nil {
		return "", fmt.Errorf("text service request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("text service returned status %d", resp.StatusCode())
	}
	return out.Text, nil
}

// AnalyzeEquipment produces an engineering assessment of one asset
// based on its recent inspection history.
func (c *Client) AnalyzeEquipment(ctx context.Context, eq model.Equipment, logs []model.MaintenanceLog) string {
	if !c.Enabled() {
		return "Análise técnica indisponível para este ativo."
	}

	var history strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&history, "Data: %s, Amperagem: %sA, Temp: %s°C, Obs: %s\n",
			l.Date.Format("2006-01-02"), orNA(l.AmperageL1), orNA(l.Temperature), l.Observations)
	}

	prompt := fmt.Sprintf(`Como engenheiro de manutenção experiente, analise os dados técnicos do equipamento:
Ativo: %s (%s)
Nominais: %.1fA, Temp Máx: %.0f°C

Histórico Recente de Inspeção:
%s
Forneça um parecer de engenharia rigoroso:
1. Diagnóstico preciso do estado de conservação.
2. Alertas sobre tendências de falha baseadas em amperagem ou temperatura.
3. Plano de ação corretiva ou preventiva imediata.
Mantenha o tom profissional e técnico.`,
		eq.Name, eq.Type, eq.ManufacturerAmperage, eq.MaxOperatingTemp, history.String())

	text, err := c.generate(ctx, prompt, 1500)
	if err != nil {
		log.Printf("Error analyzing equipment %d: %v", eq.ID, err)
		return "Falha na comunicação com o motor de IA. Verifique os dados locais."
	}
	if text == "" {
		return "Análise técnica indisponível para este ativo."
	}
	return text
}

// MonthlySummary produces the executive summary of a month of
// maintenance activity.
func (c *Client) MonthlySummary(ctx context.Context, month string, equipment []model.Equipment, logs []model.MaintenanceLog) string {
	if !c.Enabled() {
		return "Sem dados suficientes para gerar o resumo mensal."
	}

	byID := make(map[int64]model.Equipment, len(equipment))
	for _, eq := range equipment {
		byID[eq.ID] = eq
	}

	var activities strings.Builder
	for _, l := range logs {
		subject := ""
		if l.EquipmentID != nil {
			if eq, ok := byID[*l.EquipmentID]; ok {
				subject = fmt.Sprintf("Equip: %s", eq.Name)
			}
		}
		if subject == "" && l.Category != nil {
			subject = fmt.Sprintf("Reparo: %s", *l.Category)
		}
		fmt.Fprintf(&activities, "- %s: [%s] %s - %s\n", l.Date.Format("2006-01-02"), l.Type, subject, l.Observations)
	}

	prompt := fmt.Sprintf(`Atue como Gestor de Engenharia Gerencial. Resuma as atividades de manutenção do mês %s.
Log de Atividades:
%s
Sua resposta deve ser um laudo executivo estruturado em Markdown:
### 1. PANORAMA OPERACIONAL MENSAL
### 2. PRINCIPAIS INTERVENÇÕES E CONFORMIDADE
### 3. RECOMENDAÇÕES ESTRATÉGICAS DE PRESERVAÇÃO

Seja conciso, focado em segurança predial e preservação de ativos.`, month, activities.String())

	text, err := c.generate(ctx, prompt, 0)
	if err != nil {
		log.Printf("Error generating monthly summary: %v", err)
		return "Aguardando processamento do laudo mensal."
	}
	if text == "" {
		return "Sem dados suficientes para gerar o resumo mensal."
	}
	return text
}

func orNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
