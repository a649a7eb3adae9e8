package nutrition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

// SystemInstruction is the system-level message sent with every generation
// call. It restricts the generator to plain text so the sanitizer has as
// little as possible to do.
const SystemInstruction = "Respondé SOLO en texto plano. No uses markdown, " +
	"listas, títulos, asteriscos, emojis ni símbolos especiales."

// NonFoodSentence is the single canonical answer the prompt demands for
// products that are not human food. Responses carrying it parse to score 0.
const NonFoodSentence = "El producto analizado no corresponde a un alimento, " +
	"por lo que no es posible realizar una evaluación nutricional."

// promptTemplate is the fixed instruction block. The placeholders are, in
// order: sex, age, activity level, weight, height, product text, and the
// canonical non-food sentence. Everything else is verbatim contract text the
// score extractor depends on.
const promptTemplate = `Rol:
Sos un nutricionista experto en alimentación saludable, con formación basada en guías europeas (OMS Europa, EFSA, dieta mediterránea).

Contexto:
Estás escribiendo el resultado que va a leer un usuario dentro de una app.
No es un informe técnico ni una respuesta de chat.

Datos del usuario:
Sexo: %s
Edad: %d
Nivel de actividad física: %s
Peso: %s kg
Altura: %s cm

Producto analizado:
%s

VALIDACIÓN PREVIA:
Antes de evaluar, decidí si el texto del producto corresponde a un alimento para consumo humano. Si se trata de un producto de limpieza, un cosmético, un medicamento, un suplemento no alimenticio o un químico, respondé EXACTAMENTE esta frase y nada más, sin puntaje y sin clasificación:
%s

REGLAS OBLIGATORIAS (si no se cumplen, la respuesta es incorrecta):
- NO uses markdown.
- NO uses títulos, subtítulos, listas, viñetas ni numeraciones.
- NO uses asteriscos, símbolos especiales ni emojis.
- NO hagas introducciones largas.
- NO repitas los datos del usuario.
- NO escribas más de 120 palabras en total.
- NO presentes el resultado como un diagnóstico médico ni como un tratamiento personalizado.

CRITERIOS DE PUNTUACIÓN (de 0 a 100):
Calidad de los ingredientes 30%%, nivel de procesamiento 20%%, perfil nutricional (sodio, grasas totales y saturadas, azúcares, proteínas, fibra) 40%%, adecuación al perfil del usuario 10%%.

ESCALA:
90-100 muy recomendable, 75-89 recomendable, 60-74 aceptable, 45-59 poco recomendable, menos de 45 no recomendable.

FORMATO OBLIGATORIO DE LA RESPUESTA:
Primero, una frase corta que indique claramente si el producto es ultraprocesado, procesado o no procesado, y si es o no recomendable para consumo habitual.
Luego, en una línea separada, escribí EXACTAMENTE:
Puntaje global: XX / 100
Después, un breve párrafo (máximo 3 oraciones) explicando el motivo principal del puntaje.
Por último, una recomendación práctica y concreta, sin carácter prescriptivo.

ESTILO:
natural, claro, humano, directo, como una nota breve dentro de una app de nutrición.`

// BuildPrompt renders the instruction block for one analysis. It is pure and
// deterministic: the same profile and product text always yield byte-equal
// output (no timestamps, no randomness), so repeated generation calls for the
// same request are idempotent from the prompt's point of view.
func BuildPrompt(p domain.Profile, productText string) string {
	return fmt.Sprintf(promptTemplate,
		p.Sex,
		p.Age,
		p.ActivityLevel,
		formatMeasure(p.WeightKg),
		formatMeasure(p.HeightCm),
		strings.TrimSpace(productText),
		NonFoodSentence,
	)
}

// formatMeasure renders weight/height without a trailing ".0" for whole
// values, matching how users entered them.
func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
