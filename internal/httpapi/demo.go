package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelane/triage/pkg/triage"
)

// DemoPayload is a canned request for frontend testing.
type DemoPayload struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Payload     triage.Request `json:"payload"`
}

var demoOrder = []string{"emergency", "urgent", "gp", "self_care"}

var demoPayloads = map[string]DemoPayload{
	"emergency": {
		ID:          "emergency",
		Name:        "Cardiac Emergency",
		Description: "Severe chest pain with shortness of breath - should trigger RED/EMERGENCY_911",
		Payload: triage.Request{
			Symptoms:          []string{"chest pain", "shortness of breath", "dizziness"},
			Severity:          "severe",
			Duration:          "sudden onset",
			AdditionalFactors: []string{"sweating", "nausea"},
		},
	},
	"urgent": {
		ID:          "urgent",
		Name:        "High Fever with Concerning Symptoms",
		Description: "High fever with difficulty breathing - should trigger URGENT_CARE",
		Payload: triage.Request{
			Symptoms:          []string{"fever", "difficulty breathing", "headache"},
			Severity:          "high",
			Duration:          "2 days",
			Temperature:       "104°F",
			AdditionalFactors: []string{"confusion"},
		},
	},
	"gp": {
		ID:          "gp",
		Name:        "Persistent Cough",
		Description: "Cough lasting over 2 weeks - should trigger SEE_DOCTOR_24H",
		Payload: triage.Request{
			Symptoms:          []string{"persistent cough", "fatigue"},
			Severity:          "moderate",
			Duration:          "3 weeks",
			AdditionalFactors: []string{"weight loss"},
		},
	},
	"self_care": {
		ID:          "self_care",
		Name:        "Mild Cold Symptoms",
		Description: "Basic cold symptoms - should trigger SELF_CARE_MONITOR",
		Payload: triage.Request{
			Symptoms: []string{"runny nose", "sneezing", "mild cough"},
			Severity: "mild",
			Duration: "2 days",
		},
	},
}

func (s *Server) listDemos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"demo_ids":    demoOrder,
		"description": "Use /api/demo/{id} to get specific demo payloads for testing",
	})
}

func (s *Server) getDemo(c *gin.Context) {
	demo, ok := demoPayloads[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demo payload not found"})
		return
	}
	c.JSON(http.StatusOK, demo)
}
