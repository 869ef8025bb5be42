package localization

// hindi holds exact-match translations. No value may also be a key, which
// keeps Translate idempotent.
var hindi = map[string]string{
	// Messages
	"Success":                               "सफल",
	"Error":                                 "त्रुटि",
	"Not found":                             "नहीं मिला",
	"Unauthorized":                          "अनधिकृत",
	"Bad request":                           "खराब अनुरोध",
	"Internal server error":                 "आंतरिक सर्वर त्रुटि",
	"Disease detected":                      "रोग का पता चला",
	"No disease detected":                   "कोई रोग नहीं मिला",
	"Image uploaded successfully":           "छवि सफलतापूर्वक अपलोड की गई",
	"Invalid image format":                  "अमान्य छवि प्रारूप",
	"No image provided":                     "कोई छवि प्रदान नहीं की गई",
	"File too large. Maximum size is 10MB.": "फ़ाइल बहुत बड़ी है। अधिकतम आकार 10MB है।",

	"File type not allowed. Only image files (jpg, jpeg, png, gif) are permitted.": "फ़ाइल प्रकार की अनुमति नहीं है। केवल छवि फ़ाइलें (jpg, jpeg, png, gif) स्वीकार्य हैं।",

	"Scan not found":                      "स्कैन नहीं मिला",
	"Scan deleted successfully":           "स्कैन सफलतापूर्वक हटा दिया गया",
	"Disease not found":                   "रोग नहीं मिला",
	"Authentication required":             "प्रमाणीकरण आवश्यक है",
	"Disease scan completed successfully": "रोग स्कैन सफलतापूर्वक पूरा हुआ",

	// Failure and placeholder text
	"Could not process the image":                                     "छवि संसाधित नहीं की जा सकी",
	"API did not return a valid response":                             "API ने मान्य उत्तर नहीं दिया",
	"Empty response from vision service":                              "विज़न सेवा से खाली उत्तर मिला",
	"Vision service is not configured":                                "विज़न सेवा कॉन्फ़िगर नहीं है",
	"No prediction was produced":                                      "कोई पूर्वानुमान नहीं मिला",
	"Analysis completed but detailed symptoms not available":          "विश्लेषण पूरा हुआ लेकिन विस्तृत लक्षण उपलब्ध नहीं हैं",
	"Consult agricultural extension service for specific treatment":   "विशिष्ट उपचार के लिए कृषि विस्तार सेवा से परामर्श करें",
	"Follow general plant health practices":                           "सामान्य पौध स्वास्थ्य प्रथाओं का पालन करें",
	"Multiple possibilities detected - manual inspection recommended": "कई संभावनाएं मिलीं - मैन्युअल निरीक्षण की सलाह दी जाती है",

	// Knowledge base
	"Visible damage on plant":                       "पौधे पर दिखाई देने वाली क्षति",
	"Abnormal growth or coloration":                 "असामान्य वृद्धि या रंग",
	"Decreased plant vigor":                         "पौधे की शक्ति में कमी",
	"Remove severely infected parts":                "गंभीर रूप से संक्रमित भागों को हटाएं",
	"Consider appropriate fungicides or pesticides": "उपयुक्त फफूंदनाशक या कीटनाशक पर विचार करें",
	"Improve growing conditions":                    "उगाने की स्थितियों में सुधार करें",
	"Regular monitoring":                            "नियमित निगरानी",
	"Maintain plant health":                         "पौधे का स्वास्थ्य बनाए रखें",
	"Practice crop rotation":                        "फसल चक्र अपनाएं",
	"No treatment needed - plant is healthy":        "उपचार की आवश्यकता नहीं - पौधा स्वस्थ है",
	"Balanced fertilization":                        "संतुलित उर्वरक",
	"Proper watering":                               "उचित सिंचाई",
	"Remove and destroy infected leaves":            "संक्रमित पत्तियों को हटाकर नष्ट करें",
	"Apply fungicide sprays":                        "फफूंदनाशक का छिड़काव करें",
	"Improve air circulation around trees":          "पेड़ों के आसपास हवा का संचार सुधारें",
	"Select resistant varieties":                    "प्रतिरोधी किस्में चुनें",
	"Proper pruning":                                "उचित छंटाई",
	"Apply preventative fungicide":                  "निवारक फफूंदनाशक लगाएं",

	// Terms
	"disease":    "रोग",
	"healthy":    "स्वस्थ",
	"symptoms":   "लक्षण",
	"treatment":  "उपचार",
	"prevention": "रोकथाम",
	"fungicide":  "फफूंदीनाशक",
	"pesticide":  "कीटनाशक",
	"organic":    "जैविक",
	"Organic":    "जैविक उत्पाद",
	"chemical":   "रासायनिक",
	"Chemical":   "रासायनिक उत्पाद",
	"Biological": "जैविक नियंत्रण",
	"Unknown":    "अज्ञात",
}

// hindiClasses are display names for vocabulary labels.
var hindiClasses = map[string]string{
	"Apple___Apple_scab":                                 "सेब - सेब स्कैब",
	"Apple___Black_rot":                                  "सेब - काला सड़न",
	"Apple___Cedar_apple_rust":                           "सेब - सीडर सेब जंग",
	"Apple___healthy":                                    "सेब - स्वस्थ",
	"Blueberry___healthy":                                "ब्लूबेरी - स्वस्थ",
	"Cherry_(including_sour)___Powdery_mildew":           "चेरी (खट्टी सहित) - पाउडरी मिल्ड्यू",
	"Cherry_(including_sour)___healthy":                  "चेरी (खट्टी सहित) - स्वस्थ",
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot": "मक्का - सर्कोस्पोरा लीफ स्पॉट ग्रे लीफ स्पॉट",
	"Corn_(maize)___Common_rust_":                        "मक्का - सामान्य जंग",
	"Corn_(maize)___Northern_Leaf_Blight":                "मक्का - उत्तरी पत्ती झुलसा",
	"Corn_(maize)___healthy":                             "मक्का - स्वस्थ",
	"Grape___Black_rot":                                  "अंगूर - काला सड़न",
	"Grape___Esca_(Black_Measles)":                       "अंगूर - एस्का (काला खसरा)",
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)":         "अंगूर - पत्ती झुलसा (आइसारिओप्सिस पत्ती धब्बा)",
	"Grape___healthy":                                    "अंगूर - स्वस्थ",
	"Orange___Haunglongbing_(Citrus_greening)":           "संतरा - हौंगलॉन्गबिंग (सिट्रस ग्रीनिंग)",
	"Peach___Bacterial_spot":                             "आड़ू - बैक्टीरियल स्पॉट",
	"Peach___healthy":                                    "आड़ू - स्वस्थ",
	"Pepper,_bell___Bacterial_spot":                      "शिमला मिर्च - बैक्टीरियल स्पॉट",
	"Pepper,_bell___healthy":                             "शिमला मिर्च - स्वस्थ",
	"Potato___Early_blight":                              "आलू - प्रारंभिक झुलसा",
	"Potato___Late_blight":                               "आलू - पछेती झुलसा",
	"Potato___healthy":                                   "आलू - स्वस्थ",
	"Raspberry___healthy":                                "रास्पबेरी - स्वस्थ",
	"Soybean___healthy":                                  "सोयाबीन - स्वस्थ",
	"Squash___Powdery_mildew":                            "स्क्वैश - पाउडरी मिल्ड्यू",
	"Strawberry___Leaf_scorch":                           "स्ट्रॉबेरी - पत्ती झुलसा",
	"Strawberry___healthy":                               "स्ट्रॉबेरी - स्वस्थ",
	"Tomato___Bacterial_spot":                            "टमाटर - बैक्टीरियल स्पॉट",
	"Tomato___Early_blight":                              "टमाटर - प्रारंभिक झुलसा",
	"Tomato___Late_blight":                               "टमाटर - पछेती झुलसा",
	"Tomato___Leaf_Mold":                                 "टमाटर - पत्ती मोल्ड",
	"Tomato___Septoria_leaf_spot":                        "टमाटर - सेप्टोरिया पत्ती धब्बा",
	"Tomato___Spider_mites Two-spotted_spider_mite":      "टमाटर - स्पाइडर माइट्स दो-धब्बेदार स्पाइडर माइट",
	"Tomato___Target_Spot":                               "टमाटर - टारगेट स्पॉट",
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus":             "टमाटर - टमाटर पीला पत्ती कर्ल वायरस",
	"Tomato___Tomato_mosaic_virus":                       "टमाटर - टमाटर मोज़ेक वायरस",
	"Tomato___healthy":                                   "टमाटर - स्वस्थ",
	"Unknown":                                            "अज्ञात",
	"API_ERROR":                                          "API त्रुटि",
	"CLIENT_ERROR":                                       "क्लाइंट त्रुटि",
	"PREDICTION_ERROR":                                   "पूर्वानुमान त्रुटि",
}

// hindiPlants covers plantType values derived from labels.
var hindiPlants = map[string]string{
	"Apple":                   "सेब",
	"Blueberry":               "ब्लूबेरी",
	"Cherry (including sour)": "चेरी (खट्टी सहित)",
	"Corn (maize)":            "मक्का",
	"Grape":                   "अंगूर",
	"Orange":                  "संतरा",
	"Peach":                   "आड़ू",
	"Pepper, bell":            "शिमला मिर्च",
	"Potato":                  "आलू",
	"Raspberry":               "रास्पबेरी",
	"Soybean":                 "सोयाबीन",
	"Squash":                  "स्क्वैश",
	"Strawberry":              "स्ट्रॉबेरी",
	"Tomato":                  "टमाटर",
}
