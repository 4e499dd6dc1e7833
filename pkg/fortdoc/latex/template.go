package latex

// unitTemplate renders a page. Delimiters are << >> because LaTeX is full of
// braces.
const unitTemplate = `%!TEX encoding = UTF-8 Unicode
<<- range .Sections >>
<<- if .Command >>

\<< .Command >>{<< .Title >> \ifo{<< .Name >>}}
\label{<< .Command >>:<< .Name >>}\index{\code{<< .Name >>}}

\begin{minted}[<< $.MintedOptions >>]{fortran}
<< .Signature | trim >>
\end{minted}
<<- end >>
<< template "block" .Block >>
<<- end >>
`

const blockTemplate = `<<- define "block" >>
<<- range .Core >>
<< . >>
<< end >>
<<- with .Header >>
\code{<< .Label >>}: \ifo{<< .Decl >>}
<< end >>
<<- if .Open >>
\begin{description}
<<- end >>
<<- if .SameAsGeneric >>
    \item{\textsf{\textbf{<< .ListTitle >>}}}:
        Same as generic subroutine
<<- else if .Items >>
    \item{\textsf{\textbf{<< .ListTitle >>}}}:
    \begin{description}
<<- range .Items >>
        \item[\code{<< .Label >>}]: \ifo{<< .Decl >>} \\
            << .Text >>
<<- end >>
    \end{description}
<< end >>
<<- template "entries" (dict "Title" "References" "Items" .References) >>
<<- template "entries" (dict "Title" "History" "Items" .History) >>
<<- template "bullets" (dict "Title" "Original author(s)" "Items" .Authors) >>
<<- template "bullets" (dict "Title" "Advisor(s)" "Items" .Advisors) >>
<<- if .Open >>
\end{description}
<<- end >>
<<- end >>

<<- define "entries" >>
<<- if .Items >>
    \item{\textsf{\textbf{<< .Title >>}}}:
    \begin{description}
<<- range .Items >>
        \item[<< .Label >>]: << .Text >>
<<- end >>
    \end{description}
<< end >>
<<- end >>

<<- define "bullets" >>
<<- if .Items >>
    \item{\textsf{\textbf{<< .Title >>}}}:
    \begin{description}
<<- range .Items >>
        \item[$\bullet$] << . >>
<<- end >>
    \end{description}
<< end >>
<<- end >>
`
