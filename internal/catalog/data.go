package catalog

import "github.com/betterchoicedev/checkout-api/internal/domain"

// ConsultationSinglePriceID is the one-time consultation session price. Its
// one-time-ness is pinned by identifier at checkout, not only by the missing
// interval field.
const ConsultationSinglePriceID = "price_consult_single"

func defaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "NUTRITION_TRAINING",
			Name: domain.LocalizedText{
				EN: "Nutrition + Training",
				HE: "תזונה + אימונים",
			},
			Description: domain.LocalizedText{
				EN: "Personal nutrition coaching with a full training program.",
				HE: "ליווי תזונתי אישי עם תוכנית אימונים מלאה.",
			},
			Category: domain.CategoryComplete,
			Prices: []domain.Price{
				{
					ID:               "price_nt_3m",
					AmountILS:        78000,
					AmountUSD:        22500,
					Currency:         "ils",
					Interval:         domain.IntervalMonth,
					CommitmentMonths: 3,
					Popular:          true,
				},
				{
					ID:               "price_nt_6m",
					AmountILS:        69000,
					AmountUSD:        19900,
					Currency:         "ils",
					Interval:         domain.IntervalMonth,
					CommitmentMonths: 6,
					Discount:         "12% off",
				},
			},
			Features: []domain.LocalizedText{
				{EN: "Weekly check-ins with your coach", HE: "שיחת מעקב שבועית עם המאמן"},
				{EN: "Personalized meal plan", HE: "תפריט תזונה מותאם אישית"},
				{EN: "Full gym and home training program", HE: "תוכנית אימונים מלאה לחדר כושר ולבית"},
				{EN: "Unlimited chat support", HE: "תמיכה בצ'אט ללא הגבלה"},
			},
		},
		{
			ID: "NUTRITION_ONLY",
			Name: domain.LocalizedText{
				EN: "Nutrition Only",
				HE: "תזונה בלבד",
			},
			Description: domain.LocalizedText{
				EN: "Personal nutrition coaching, meal plans and weekly follow-up.",
				HE: "ליווי תזונתי אישי, תפריטים ומעקב שבועי.",
			},
			Category: domain.CategoryNutrition,
			Prices: []domain.Price{
				{
					ID:               "price_no_3m",
					AmountILS:        58000,
					AmountUSD:        16500,
					Currency:         "ils",
					Interval:         domain.IntervalMonth,
					CommitmentMonths: 3,
					Popular:          true,
				},
				{
					ID:               "price_no_6m",
					AmountILS:        50000,
					AmountUSD:        14500,
					Currency:         "ils",
					Interval:         domain.IntervalMonth,
					CommitmentMonths: 6,
					Discount:         "14% off",
				},
			},
			Features: []domain.LocalizedText{
				{EN: "Personalized meal plan", HE: "תפריט תזונה מותאם אישית"},
				{EN: "Weekly check-ins with your dietitian", HE: "שיחת מעקב שבועית עם הדיאטנית"},
				{EN: "Recipe library access", HE: "גישה למאגר המתכונים"},
			},
		},
		{
			ID: "CONSULTATION",
			Name: domain.LocalizedText{
				EN: "One-Time Consultation",
				HE: "פגישת ייעוץ חד פעמית",
			},
			Description: domain.LocalizedText{
				EN: "A single session with a certified dietitian, no commitment.",
				HE: "פגישה אחת עם דיאטנית מוסמכת, ללא התחייבות.",
			},
			Category: domain.CategoryConsultation,
			Prices: []domain.Price{
				{
					ID:        ConsultationSinglePriceID,
					AmountILS: 35000,
					AmountUSD: 9900,
					Currency:  "ils",
				},
			},
			Features: []domain.LocalizedText{
				{EN: "60-minute video session", HE: "פגישת וידאו של 60 דקות"},
				{EN: "Written summary and recommendations", HE: "סיכום כתוב והמלצות"},
			},
		},
		{
			ID: "RECIPE_LIBRARY",
			Name: domain.LocalizedText{
				EN: "Recipe Library",
				HE: "מאגר המתכונים",
			},
			Description: domain.LocalizedText{
				EN: "Monthly access to the full recipe and meal-prep library.",
				HE: "גישה חודשית למאגר המתכונים והבישול המלא.",
			},
			Category: domain.CategoryContent,
			Prices: []domain.Price{
				{
					ID:        "price_recipes_monthly",
					AmountILS: 2900,
					AmountUSD: 900,
					Currency:  "ils",
					Interval:  domain.IntervalMonth,
				},
			},
			Features: []domain.LocalizedText{
				{EN: "Hundreds of dietitian-approved recipes", HE: "מאות מתכונים באישור דיאטנית"},
				{EN: "New recipes every week", HE: "מתכונים חדשים בכל שבוע"},
			},
		},
	}
}
