package vision

import (
	"strings"

	"farmcare/localization"
	"farmcare/vocab"
)

const classesPlaceholder = "<<DISEASE_CLASSES>>"

const englishPrompt = `You are an expert agricultural pathologist. Analyze this plant image with extreme precision.

Steps:
1. Identify the PLANT TYPE from leaf shape, arrangement and structure. It must match one of the available classes.
2. Examine visible symptoms such as spots, discoloration, wilting or mold.
3. Classify the disease. The class must belong to the identified plant type.

Available disease classes (choose ONLY from this list):
<<DISEASE_CLASSES>>

If the plant does not match any class, answer "Unknown".

PESTICIDE PRODUCTS FOR INDIAN FARMERS:
For a diseased plant provide exactly 3 products that are sold in India (BigHaat, AgriBegri, IndiaMART, Amazon.in, Flipkart).
Include chemical and organic or biological options, real product names, purchase URLs and a price range in Indian Rupees.
For a healthy plant set pesticideProducts to [].

Reply in this JSON format, without markdown fences and without trailing commas:
{
  "isConfident": true,
  "highConfidenceResult": {
    "diseaseName": "exact class from the list",
    "description": "1-2 sentence summary of the disease",
    "cause": "1 sentence on the pathogen and favorable conditions",
    "confidenceScore": 0-100,
    "symptoms": ["symptom 1", "symptom 2", "symptom 3"],
    "organicTreatments": [{"title": "method", "description": "how and when to apply"}],
    "chemicalTreatments": [{"activeIngredient": "common name", "usage": "when and interval", "caution": "safety note"}],
    "prevention": ["practice 1", "practice 2", "practice 3"],
    "pesticideProducts": [{"productName": "brand", "type": "Chemical/Organic/Biological", "activeIngredient": "ingredient", "price": "₹XXX - ₹XXX", "purchaseUrl": "https://...", "seller": "website"}]
  },
  "lowConfidenceResults": [{"diseaseName": "possible class", "preventionTips": "short tip"}]
}

Rules:
- Confidence >= 70: isConfident=true, include highConfidenceResult and leave lowConfidenceResults empty.
- Confidence < 70: isConfident=false, include 2-3 lowConfidenceResults and omit highConfidenceResult.
- Exactly 2 organicTreatments and 2 chemicalTreatments when confident.
- Never invent a disease outside the list.
- Plain text values only, no newlines inside strings.
Respond ONLY with JSON.`

const hindiPrompt = `आप एक विशेषज्ञ पादप रोगविज्ञानी हैं। इस पौधे की छवि का अत्यंत सटीकता से विश्लेषण करें।

चरण:
1. पत्ती के आकार और पौधे की संरचना से पौधे के प्रकार की पहचान करें। यह उपलब्ध वर्गों में से किसी एक से मेल खाना चाहिए।
2. धब्बे, मलिनकिरण, मुरझाना या फफूंद जैसे दिखाई देने वाले लक्षण देखें।
3. रोग का वर्गीकरण करें। वर्ग पहचाने गए पौधे का ही होना चाहिए।

उपलब्ध रोग वर्ग (केवल इस सूची से चुनें, diseaseName अंग्रेज़ी वर्ग नाम ही रहे):
<<DISEASE_CLASSES>>

यदि पौधा किसी वर्ग से मेल नहीं खाता, तो "Unknown" बताएं।

भारतीय किसानों के लिए कीटनाशक उत्पाद:
रोगग्रस्त पौधे के लिए भारत में उपलब्ध ठीक 3 उत्पाद बताएं (BigHaat, AgriBegri, IndiaMART, Amazon.in, Flipkart)।
रासायनिक और जैविक विकल्प, वास्तविक उत्पाद नाम, खरीद URL और रुपये (₹) में मूल्य सीमा शामिल करें।
स्वस्थ पौधे के लिए pesticideProducts को [] रखें।

उत्तर इस JSON प्रारूप में दें, बिना मार्कडाउन बाड़ और बिना अतिरिक्त कॉमा के:
{
  "isConfident": true,
  "highConfidenceResult": {
    "diseaseName": "सूची से सटीक वर्ग",
    "description": "रोग का 1-2 वाक्य सारांश",
    "cause": "रोगजनक और अनुकूल परिस्थितियों पर 1 वाक्य",
    "confidenceScore": 0-100,
    "symptoms": ["लक्षण 1", "लक्षण 2", "लक्षण 3"],
    "organicTreatments": [{"title": "विधि", "description": "कैसे और कब लागू करें"}],
    "chemicalTreatments": [{"activeIngredient": "सामान्य नाम", "usage": "कब और अंतराल", "caution": "सुरक्षा नोट"}],
    "prevention": ["अभ्यास 1", "अभ्यास 2", "अभ्यास 3"],
    "pesticideProducts": [{"productName": "ब्रांड", "type": "Chemical/Organic/Biological", "activeIngredient": "घटक", "price": "₹XXX - ₹XXX", "purchaseUrl": "https://...", "seller": "वेबसाइट"}]
  },
  "lowConfidenceResults": [{"diseaseName": "संभावित वर्ग", "preventionTips": "छोटा सुझाव"}]
}

नियम:
- विश्वास >= 70: isConfident=true, highConfidenceResult शामिल करें और lowConfidenceResults खाली रखें।
- विश्वास < 70: isConfident=false, 2-3 lowConfidenceResults शामिल करें और highConfidenceResult छोड़ दें।
- विश्वस्त होने पर ठीक 2 organicTreatments और 2 chemicalTreatments।
- सूची के बाहर का रोग न बनाएं।
- केवल सादा पाठ, स्ट्रिंग्स में नई लाइन नहीं।
केवल JSON के साथ उत्तर दें।`

// Prompt returns the analysis prompt for lang with the vocabulary filled in.
func Prompt(lang localization.Language) string {
	tmpl := englishPrompt
	if lang == localization.Hindi {
		tmpl = hindiPrompt
	}
	return strings.Replace(tmpl, classesPlaceholder, strings.Join(vocab.Classes, ", "), 1)
}
