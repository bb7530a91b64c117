package formula

import "strings"

// ArgumentInfo descreve um argumento de função
type ArgumentInfo struct {
	Name        string
	Description string
	Optional    bool
	Repeating   bool
}

// FunctionInfo descreve uma função da biblioteca embutida
type FunctionInfo struct {
	Name        string
	Category    string
	Description string
	Syntax      string
	Args        []ArgumentInfo
}

const (
	CategoryMath      = "Matemática"
	CategoryStat      = "Estatística"
	CategoryText      = "Texto"
	CategoryLogical   = "Lógica"
	CategoryLookup    = "Pesquisa"
	CategoryDate      = "Data e hora"
	CategoryInfo      = "Informação"
)

func arg(name, desc string) ArgumentInfo {
	return ArgumentInfo{Name: name, Description: desc}
}

func optArg(name, desc string) ArgumentInfo {
	return ArgumentInfo{Name: name, Description: desc, Optional: true}
}

func repArg(name, desc string) ArgumentInfo {
	return ArgumentInfo{Name: name, Description: desc, Optional: true, Repeating: true}
}

func fn(name, category, desc, syntax string, args ...ArgumentInfo) FunctionInfo {
	return FunctionInfo{Name: name, Category: category, Description: desc, Syntax: syntax, Args: args}
}

// builtinFunctions é a biblioteca embutida usada por sugestões e dicas
// de argumento. A ordem não importa; o índice é montado em init.
var builtinFunctions = []FunctionInfo{
	fn("SUM", CategoryMath, "Soma os números de um intervalo", "SUM(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("AVERAGE", CategoryStat, "Média aritmética dos argumentos", "AVERAGE(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("COUNT", CategoryStat, "Conta quantos números há nos argumentos", "COUNT(valor1, [valor2], ...)",
		arg("valor1", "primeiro valor ou intervalo"), repArg("valor2", "valores adicionais")),
	fn("COUNTA", CategoryStat, "Conta células não vazias", "COUNTA(valor1, [valor2], ...)",
		arg("valor1", "primeiro valor ou intervalo"), repArg("valor2", "valores adicionais")),
	fn("COUNTBLANK", CategoryStat, "Conta células vazias de um intervalo", "COUNTBLANK(intervalo)",
		arg("intervalo", "intervalo a examinar")),
	fn("MAX", CategoryStat, "Maior valor dos argumentos", "MAX(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("MIN", CategoryStat, "Menor valor dos argumentos", "MIN(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("MEDIAN", CategoryStat, "Mediana dos argumentos", "MEDIAN(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("MODE", CategoryStat, "Valor mais frequente", "MODE(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("STDEV", CategoryStat, "Desvio padrão amostral", "STDEV(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("VAR", CategoryStat, "Variância amostral", "VAR(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("LARGE", CategoryStat, "k-ésimo maior valor", "LARGE(matriz, k)",
		arg("matriz", "intervalo de dados"), arg("k", "posição a partir do maior")),
	fn("SMALL", CategoryStat, "k-ésimo menor valor", "SMALL(matriz, k)",
		arg("matriz", "intervalo de dados"), arg("k", "posição a partir do menor")),
	fn("RANK", CategoryStat, "Posição de um número em uma lista", "RANK(número, ref, [ordem])",
		arg("número", "número a classificar"), arg("ref", "lista de números"),
		optArg("ordem", "0 decrescente, 1 crescente")),
	fn("IF", CategoryLogical, "Devolve um valor se a condição for verdadeira e outro se for falsa", "IF(teste, valor_se_verdadeiro, [valor_se_falso])",
		arg("teste", "condição a avaliar"), arg("valor_se_verdadeiro", "resultado quando verdadeiro"),
		optArg("valor_se_falso", "resultado quando falso")),
	fn("IFS", CategoryLogical, "Avalia várias condições em ordem", "IFS(teste1, valor1, [teste2, valor2], ...)",
		arg("teste1", "primeira condição"), arg("valor1", "resultado da primeira condição"),
		repArg("teste2", "condições e resultados adicionais")),
	fn("IFERROR", CategoryLogical, "Valor alternativo quando a expressão dá erro", "IFERROR(valor, valor_se_erro)",
		arg("valor", "expressão a avaliar"), arg("valor_se_erro", "resultado em caso de erro")),
	fn("AND", CategoryLogical, "Verdadeiro se todos os argumentos forem verdadeiros", "AND(lógico1, [lógico2], ...)",
		arg("lógico1", "primeira condição"), repArg("lógico2", "condições adicionais")),
	fn("OR", CategoryLogical, "Verdadeiro se algum argumento for verdadeiro", "OR(lógico1, [lógico2], ...)",
		arg("lógico1", "primeira condição"), repArg("lógico2", "condições adicionais")),
	fn("NOT", CategoryLogical, "Inverte um valor lógico", "NOT(lógico)",
		arg("lógico", "condição a inverter")),
	fn("XOR", CategoryLogical, "Ou exclusivo dos argumentos", "XOR(lógico1, [lógico2], ...)",
		arg("lógico1", "primeira condição"), repArg("lógico2", "condições adicionais")),
	fn("TRUE", CategoryLogical, "Valor lógico verdadeiro", "TRUE()"),
	fn("FALSE", CategoryLogical, "Valor lógico falso", "FALSE()"),
	fn("VLOOKUP", CategoryLookup, "Procura um valor na primeira coluna e devolve da coluna indicada", "VLOOKUP(valor, tabela, coluna, [aproximado])",
		arg("valor", "valor a procurar"), arg("tabela", "intervalo de pesquisa"),
		arg("coluna", "índice da coluna de retorno"), optArg("aproximado", "FALSE para correspondência exata")),
	fn("HLOOKUP", CategoryLookup, "Procura um valor na primeira linha e devolve da linha indicada", "HLOOKUP(valor, tabela, linha, [aproximado])",
		arg("valor", "valor a procurar"), arg("tabela", "intervalo de pesquisa"),
		arg("linha", "índice da linha de retorno"), optArg("aproximado", "FALSE para correspondência exata")),
	fn("INDEX", CategoryLookup, "Valor na interseção de linha e coluna", "INDEX(matriz, linha, [coluna])",
		arg("matriz", "intervalo de dados"), arg("linha", "número da linha"),
		optArg("coluna", "número da coluna")),
	fn("MATCH", CategoryLookup, "Posição de um valor em um intervalo", "MATCH(valor, intervalo, [tipo])",
		arg("valor", "valor a procurar"), arg("intervalo", "intervalo de pesquisa"),
		optArg("tipo", "1, 0 ou -1")),
	fn("CHOOSE", CategoryLookup, "Escolhe um valor pelo índice", "CHOOSE(índice, valor1, [valor2], ...)",
		arg("índice", "posição a devolver"), arg("valor1", "primeiro valor"),
		repArg("valor2", "valores adicionais")),
	fn("OFFSET", CategoryLookup, "Intervalo deslocado a partir de uma referência", "OFFSET(ref, linhas, colunas, [altura], [largura])",
		arg("ref", "referência de partida"), arg("linhas", "deslocamento de linhas"),
		arg("colunas", "deslocamento de colunas"), optArg("altura", "altura do resultado"),
		optArg("largura", "largura do resultado")),
	fn("INDIRECT", CategoryLookup, "Referência construída a partir de texto", "INDIRECT(texto_ref, [a1])",
		arg("texto_ref", "texto da referência"), optArg("a1", "TRUE para estilo A1")),
	fn("ROW", CategoryLookup, "Número da linha de uma referência", "ROW([ref])",
		optArg("ref", "referência; padrão é a célula atual")),
	fn("COLUMN", CategoryLookup, "Número da coluna de uma referência", "COLUMN([ref])",
		optArg("ref", "referência; padrão é a célula atual")),
	fn("ROWS", CategoryLookup, "Quantidade de linhas de um intervalo", "ROWS(matriz)",
		arg("matriz", "intervalo a medir")),
	fn("COLUMNS", CategoryLookup, "Quantidade de colunas de um intervalo", "COLUMNS(matriz)",
		arg("matriz", "intervalo a medir")),
	fn("TRANSPOSE", CategoryLookup, "Transpõe linhas e colunas de um intervalo", "TRANSPOSE(matriz)",
		arg("matriz", "intervalo a transpor")),
	fn("SUMIF", CategoryMath, "Soma condicional sobre um intervalo", "SUMIF(intervalo, critério, [intervalo_soma])",
		arg("intervalo", "intervalo avaliado pelo critério"), arg("critério", "condição de soma"),
		optArg("intervalo_soma", "intervalo efetivamente somado")),
	fn("SUMIFS", CategoryMath, "Soma com múltiplos critérios", "SUMIFS(intervalo_soma, intervalo1, critério1, ...)",
		arg("intervalo_soma", "intervalo somado"), arg("intervalo1", "primeiro intervalo de critério"),
		arg("critério1", "primeira condição"), repArg("intervalo2", "pares intervalo/critério adicionais")),
	fn("COUNTIF", CategoryStat, "Conta células que satisfazem um critério", "COUNTIF(intervalo, critério)",
		arg("intervalo", "intervalo avaliado"), arg("critério", "condição de contagem")),
	fn("COUNTIFS", CategoryStat, "Conta com múltiplos critérios", "COUNTIFS(intervalo1, critério1, ...)",
		arg("intervalo1", "primeiro intervalo"), arg("critério1", "primeira condição"),
		repArg("intervalo2", "pares intervalo/critério adicionais")),
	fn("AVERAGEIF", CategoryStat, "Média condicional sobre um intervalo", "AVERAGEIF(intervalo, critério, [intervalo_média])",
		arg("intervalo", "intervalo avaliado"), arg("critério", "condição"),
		optArg("intervalo_média", "intervalo efetivamente usado na média")),
	fn("AVERAGEIFS", CategoryStat, "Média com múltiplos critérios", "AVERAGEIFS(intervalo_média, intervalo1, critério1, ...)",
		arg("intervalo_média", "intervalo da média"), arg("intervalo1", "primeiro intervalo de critério"),
		arg("critério1", "primeira condição"), repArg("intervalo2", "pares adicionais")),
	fn("SUMPRODUCT", CategoryMath, "Soma dos produtos de intervalos correspondentes", "SUMPRODUCT(matriz1, [matriz2], ...)",
		arg("matriz1", "primeira matriz"), repArg("matriz2", "matrizes adicionais")),
	fn("PRODUCT", CategoryMath, "Produto dos argumentos", "PRODUCT(número1, [número2], ...)",
		arg("número1", "primeiro número ou intervalo"), repArg("número2", "números adicionais")),
	fn("ROUND", CategoryMath, "Arredonda para a quantidade de dígitos", "ROUND(número, dígitos)",
		arg("número", "número a arredondar"), arg("dígitos", "casas decimais")),
	fn("ROUNDUP", CategoryMath, "Arredonda para cima", "ROUNDUP(número, dígitos)",
		arg("número", "número a arredondar"), arg("dígitos", "casas decimais")),
	fn("ROUNDDOWN", CategoryMath, "Arredonda para baixo", "ROUNDDOWN(número, dígitos)",
		arg("número", "número a arredondar"), arg("dígitos", "casas decimais")),
	fn("INT", CategoryMath, "Arredonda para baixo até o inteiro", "INT(número)",
		arg("número", "número a truncar")),
	fn("ABS", CategoryMath, "Valor absoluto", "ABS(número)",
		arg("número", "número de entrada")),
	fn("SQRT", CategoryMath, "Raiz quadrada", "SQRT(número)",
		arg("número", "número não negativo")),
	fn("POWER", CategoryMath, "Potência de um número", "POWER(número, expoente)",
		arg("número", "base"), arg("expoente", "expoente")),
	fn("MOD", CategoryMath, "Resto da divisão", "MOD(número, divisor)",
		arg("número", "dividendo"), arg("divisor", "divisor")),
	fn("CEILING", CategoryMath, "Arredonda para cima até o múltiplo", "CEILING(número, significância)",
		arg("número", "número a arredondar"), arg("significância", "múltiplo de destino")),
	fn("FLOOR", CategoryMath, "Arredonda para baixo até o múltiplo", "FLOOR(número, significância)",
		arg("número", "número a arredondar"), arg("significância", "múltiplo de destino")),
	fn("PI", CategoryMath, "Valor de π", "PI()"),
	fn("RAND", CategoryMath, "Número aleatório entre 0 e 1", "RAND()"),
	fn("RANDBETWEEN", CategoryMath, "Inteiro aleatório entre dois limites", "RANDBETWEEN(inferior, superior)",
		arg("inferior", "menor inteiro"), arg("superior", "maior inteiro")),
	fn("CONCATENATE", CategoryText, "Une textos em um só", "CONCATENATE(texto1, [texto2], ...)",
		arg("texto1", "primeiro texto"), repArg("texto2", "textos adicionais")),
	fn("CONCAT", CategoryText, "Une textos e intervalos em um só", "CONCAT(texto1, [texto2], ...)",
		arg("texto1", "primeiro texto ou intervalo"), repArg("texto2", "textos adicionais")),
	fn("TEXTJOIN", CategoryText, "Une textos com um delimitador", "TEXTJOIN(delimitador, ignorar_vazias, texto1, ...)",
		arg("delimitador", "texto entre os itens"), arg("ignorar_vazias", "TRUE para pular vazias"),
		arg("texto1", "primeiro texto"), repArg("texto2", "textos adicionais")),
	fn("LEFT", CategoryText, "Caracteres iniciais de um texto", "LEFT(texto, [quantidade])",
		arg("texto", "texto de origem"), optArg("quantidade", "quantos caracteres; padrão 1")),
	fn("RIGHT", CategoryText, "Caracteres finais de um texto", "RIGHT(texto, [quantidade])",
		arg("texto", "texto de origem"), optArg("quantidade", "quantos caracteres; padrão 1")),
	fn("MID", CategoryText, "Trecho de um texto", "MID(texto, início, quantidade)",
		arg("texto", "texto de origem"), arg("início", "posição inicial, a partir de 1"),
		arg("quantidade", "quantos caracteres")),
	fn("LEN", CategoryText, "Comprimento de um texto", "LEN(texto)",
		arg("texto", "texto a medir")),
	fn("TRIM", CategoryText, "Remove espaços extras", "TRIM(texto)",
		arg("texto", "texto a limpar")),
	fn("UPPER", CategoryText, "Converte para maiúsculas", "UPPER(texto)",
		arg("texto", "texto a converter")),
	fn("LOWER", CategoryText, "Converte para minúsculas", "LOWER(texto)",
		arg("texto", "texto a converter")),
	fn("PROPER", CategoryText, "Inicial maiúscula em cada palavra", "PROPER(texto)",
		arg("texto", "texto a converter")),
	fn("SUBSTITUTE", CategoryText, "Substitui ocorrências de um texto", "SUBSTITUTE(texto, antigo, novo, [ocorrência])",
		arg("texto", "texto de origem"), arg("antigo", "texto a substituir"),
		arg("novo", "texto substituto"), optArg("ocorrência", "qual ocorrência substituir")),
	fn("REPLACE", CategoryText, "Substitui um trecho por posição", "REPLACE(texto, início, quantidade, novo)",
		arg("texto", "texto de origem"), arg("início", "posição inicial"),
		arg("quantidade", "quantos caracteres substituir"), arg("novo", "texto substituto")),
	fn("FIND", CategoryText, "Posição de um texto, sensível a maiúsculas", "FIND(procurado, texto, [início])",
		arg("procurado", "texto a localizar"), arg("texto", "texto onde procurar"),
		optArg("início", "posição inicial da busca")),
	fn("SEARCH", CategoryText, "Posição de um texto, sem diferenciar maiúsculas", "SEARCH(procurado, texto, [início])",
		arg("procurado", "texto a localizar"), arg("texto", "texto onde procurar"),
		optArg("início", "posição inicial da busca")),
	fn("TEXT", CategoryText, "Formata um número como texto", "TEXT(valor, formato)",
		arg("valor", "número a formatar"), arg("formato", "código de formato")),
	fn("VALUE", CategoryText, "Converte texto em número", "VALUE(texto)",
		arg("texto", "texto numérico")),
	fn("REPT", CategoryText, "Repete um texto", "REPT(texto, vezes)",
		arg("texto", "texto a repetir"), arg("vezes", "quantidade de repetições")),
	fn("TODAY", CategoryDate, "Data de hoje", "TODAY()"),
	fn("NOW", CategoryDate, "Data e hora atuais", "NOW()"),
	fn("DATE", CategoryDate, "Constrói uma data", "DATE(ano, mês, dia)",
		arg("ano", "ano da data"), arg("mês", "mês da data"), arg("dia", "dia da data")),
	fn("DAY", CategoryDate, "Dia do mês de uma data", "DAY(data)",
		arg("data", "data de origem")),
	fn("MONTH", CategoryDate, "Mês de uma data", "MONTH(data)",
		arg("data", "data de origem")),
	fn("YEAR", CategoryDate, "Ano de uma data", "YEAR(data)",
		arg("data", "data de origem")),
	fn("HOUR", CategoryDate, "Hora de um horário", "HOUR(horário)",
		arg("horário", "horário de origem")),
	fn("MINUTE", CategoryDate, "Minuto de um horário", "MINUTE(horário)",
		arg("horário", "horário de origem")),
	fn("SECOND", CategoryDate, "Segundo de um horário", "SECOND(horário)",
		arg("horário", "horário de origem")),
	fn("WEEKDAY", CategoryDate, "Dia da semana de uma data", "WEEKDAY(data, [tipo])",
		arg("data", "data de origem"), optArg("tipo", "convenção de numeração")),
	fn("EOMONTH", CategoryDate, "Último dia do mês deslocado", "EOMONTH(data, meses)",
		arg("data", "data de partida"), arg("meses", "meses antes ou depois")),
	fn("DATEDIF", CategoryDate, "Diferença entre datas", "DATEDIF(início, fim, unidade)",
		arg("início", "data inicial"), arg("fim", "data final"), arg("unidade", "Y, M ou D")),
	fn("ISBLANK", CategoryInfo, "Verdadeiro se a célula estiver vazia", "ISBLANK(valor)",
		arg("valor", "valor a testar")),
	fn("ISNUMBER", CategoryInfo, "Verdadeiro se o valor for número", "ISNUMBER(valor)",
		arg("valor", "valor a testar")),
	fn("ISTEXT", CategoryInfo, "Verdadeiro se o valor for texto", "ISTEXT(valor)",
		arg("valor", "valor a testar")),
	fn("ISERROR", CategoryInfo, "Verdadeiro se o valor for erro", "ISERROR(valor)",
		arg("valor", "valor a testar")),
}

var functionIndex map[string]*FunctionInfo

func init() {
	functionIndex = make(map[string]*FunctionInfo, len(builtinFunctions))
	for i := range builtinFunctions {
		functionIndex[builtinFunctions[i].Name] = &builtinFunctions[i]
	}
}

// Lookup devolve a função pelo nome, sem diferenciar maiúsculas
func Lookup(name string) *FunctionInfo {
	return functionIndex[strings.ToUpper(name)]
}

// AllFunctions devolve a biblioteca completa
func AllFunctions() []FunctionInfo {
	out := make([]FunctionInfo, len(builtinFunctions))
	copy(out, builtinFunctions)
	return out
}
