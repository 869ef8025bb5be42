package vision

import "encoding/json"

// responseSchema is sent as the structured-output schema of every call.
var responseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "isConfident": {"type": "boolean"},
    "highConfidenceResult": {
      "type": "object",
      "properties": {
        "diseaseName": {"type": "string"},
        "description": {"type": "string"},
        "cause": {"type": "string"},
        "confidenceScore": {"type": "number"},
        "symptoms": {"type": "array", "items": {"type": "string"}},
        "organicTreatments": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "title": {"type": "string"},
              "description": {"type": "string"}
            },
            "required": ["title", "description"]
          }
        },
        "chemicalTreatments": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "activeIngredient": {"type": "string"},
              "usage": {"type": "string"},
              "caution": {"type": "string"}
            },
            "required": ["activeIngredient", "usage", "caution"]
          }
        },
        "prevention": {"type": "array", "items": {"type": "string"}},
        "pesticideProducts": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "productName": {"type": "string"},
              "type": {"type": "string"},
              "activeIngredient": {"type": "string"},
              "price": {"type": "string"},
              "purchaseUrl": {"type": "string"},
              "seller": {"type": "string"}
            },
            "required": ["productName", "type", "purchaseUrl", "seller"]
          }
        }
      },
      "required": ["diseaseName", "description", "cause", "confidenceScore", "symptoms", "organicTreatments", "chemicalTreatments", "prevention"]
    },
    "lowConfidenceResults": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "diseaseName": {"type": "string"},
          "preventionTips": {"type": "string"}
        },
        "required": ["diseaseName", "preventionTips"]
      }
    }
  },
  "required": ["isConfident"]
}`)
