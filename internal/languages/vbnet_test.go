package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottRBK/mycelium/internal/model"
)

const vbnetModuleFixture = `Imports System
Imports Absence.Repositories

Module EmployeeModule
    Public Sub LoadEmployee(id As Integer)
        Dim service As New EmployeeService()
        Call service.GetEmployee(id)
    End Sub
End Module

Public Class EmployeeService
    Public Function GetEmployee(id As Integer) As Employee
        Return repository.FindById(id)
    End Function
End Class

Public Class EmployeeRepository
    Public Function FindById(id As Integer) As Employee
        RaiseEvent Loaded(id)
        Return Nothing
    End Function
End Class
`

func vbnetAST(source string) *AST {
	return &AST{Content: []byte(source)}
}

func TestVBNetExtractSymbolsRecognisesModuleClassAndMembers(t *testing.T) {
	a := NewVBNetAnalyser()
	ast := vbnetAST(vbnetModuleFixture)
	symbols := a.ExtractSymbols("Employee.vb", ast)

	byName := make(map[string]*model.Symbol)
	for _, s := range symbols {
		byName[s.Name] = s
	}

	if assert.Contains(t, byName, "EmployeeModule") {
		assert.Equal(t, model.KindModule, byName["EmployeeModule"].Kind)
	}
	if assert.Contains(t, byName, "EmployeeModule.LoadEmployee") {
		sym := byName["EmployeeModule.LoadEmployee"]
		assert.Equal(t, model.KindFunction, sym.Kind)
		assert.True(t, sym.ByteEnd > sym.ByteStart)
	}
	assert.Contains(t, byName, "EmployeeService")
	if assert.Contains(t, byName, "EmployeeService.GetEmployee") {
		assert.Equal(t, model.KindFunction, byName["EmployeeService.GetEmployee"].Kind)
	}
	assert.Contains(t, byName, "EmployeeRepository")
	assert.Contains(t, byName, "EmployeeRepository.FindById")
}

func TestVBNetExtractImportsCollectsImportsStatements(t *testing.T) {
	a := NewVBNetAnalyser()
	ast := vbnetAST(vbnetModuleFixture)
	imports := a.ExtractImports("Employee.vb", ast)

	require.Len(t, imports, 2)
	assert.Equal(t, "System", imports[0].Target)
	assert.Equal(t, "Absence.Repositories", imports[1].Target)
}

func TestVBNetExtractCallsHandlesCallKeywordAndQualifiedCalls(t *testing.T) {
	a := NewVBNetAnalyser()
	ast := vbnetAST(vbnetModuleFixture)
	symbols := a.ExtractSymbols("Employee.vb", ast)
	for i, s := range symbols {
		s.ID = string(rune('a' + i))
	}
	calls := a.ExtractCalls("Employee.vb", ast, symbols)

	var loadEmployeeCalls, getEmployeeCalls, findByIdCallers []model.RawCall
	for _, c := range calls {
		switch c.CallerSymbol {
		case symbolID(symbols, "EmployeeModule.LoadEmployee"):
			loadEmployeeCalls = append(loadEmployeeCalls, c)
		case symbolID(symbols, "EmployeeService.GetEmployee"):
			getEmployeeCalls = append(getEmployeeCalls, c)
		case symbolID(symbols, "EmployeeRepository.FindById"):
			findByIdCallers = append(findByIdCallers, c)
		}
	}

	require.NotEmpty(t, loadEmployeeCalls)
	assert.Equal(t, "GetEmployee", loadEmployeeCalls[len(loadEmployeeCalls)-1].CalleeName)
	assert.Equal(t, "service", loadEmployeeCalls[len(loadEmployeeCalls)-1].Qualifier)

	require.NotEmpty(t, getEmployeeCalls)
	assert.Equal(t, "FindById", getEmployeeCalls[0].CalleeName)
	assert.Equal(t, "repository", getEmployeeCalls[0].Qualifier)

	require.NotEmpty(t, findByIdCallers)
	assert.Equal(t, "Loaded", findByIdCallers[0].CalleeName)
}

func symbolID(symbols []*model.Symbol, name string) string {
	for _, s := range symbols {
		if s.Name == name {
			return s.ID
		}
	}
	return ""
}

func TestVBNetAnalyserBuiltinExclusionsCoverConsoleAndConversions(t *testing.T) {
	a := NewVBNetAnalyser()
	exclusions := a.BuiltinExclusions()
	assert.True(t, exclusions["MsgBox"])
	assert.True(t, exclusions["CInt"])
}
