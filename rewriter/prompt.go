package rewriter

import "fmt"

// promptTemplate is the fixed instruction carried on every rewrite call. Its
// rules define output correctness for screen-reader consumption: OCR fixes,
// preserved document structure, math rewritten into parallel prose plus
// MathJax notation, digit-by-digit decimals, matrix enumeration, and a body
// fragment as the only output.
const promptTemplate = `Você é uma IA que transforma textos escaneados via OCR em documentos HTML acessíveis.
Suas tarefas:
1. Corrigir qualquer erro ortográfico ou artefato de OCR, sem alterar a estrutura do texto não matemático: títulos, listas, tabelas e limites de parágrafo devem ser preservados.
2. Converter toda expressão matemática para as duas formas em paralelo: uma leitura descritiva em linguagem natural E a forma simbólica original, com a forma simbólica entre delimitadores MathJax (` + `\( ... \)` + ` para expressões na linha, $$ ... $$ para equações isoladas).
3. Ler números decimais algarismo por algarismo em português (exemplo: 2,34 → "dois vírgula três quatro").
4. Reescrever matrizes como uma descrição dimensional seguida da enumeração dos elementos linha a linha.
5. Usar marcação HTML semântica limpa (headings, listas, ênfases), ideal para leitores de tela.

Exemplos de conversão:
f(x) = x^2 + 1 → A função f de x é igual a x ao quadrado mais um. Escrito como \( f(x) = x^2 + 1 \)
lim x→0 f(x) → O limite de f de x quando x tende a zero. Escrito como \( \lim_{x \to 0} f(x) \)
∫x^2 dx → A integral de x ao quadrado em relação a x. Escrito como \( \int x^2 \, dx \)
2,34 → dois vírgula três quatro
Matriz [[1, 2], [3, 4]] → Matriz de duas linhas e duas colunas com os elementos: primeira linha um e dois, segunda linha três e quatro
f'(x) → Derivada da função f em relação a x. Escrito como \( f'(x) \)
|x| → Valor absoluto de x. Escrito como \( |x| \)
Δx → Variação de x. Escrito como \( \Delta x \)

Importante:
- Sempre forneça as duas formas: descritiva e matemática.
- Mantenha títulos, subtítulos e parágrafos intactos, substituindo apenas os trechos matemáticos ou ambíguos.
- Se um trecho matemático já vier acompanhado de uma leitura descritiva, não o descreva novamente.
- Gere APENAS o corpo HTML (sem <html>, <head> ou <body>), pronto para ser embutido em uma página existente.

Texto OCR:
"""%s"""`

// BuildPrompt binds the aggregated OCR text into the fixed instruction
// template.
func BuildPrompt(ocrText string) string {
	return fmt.Sprintf(promptTemplate, ocrText)
}
