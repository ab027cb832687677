package resolve

import "sync"

// jdkSpecs models the parts of the platform library that source trees
// commonly touch. Types not listed here still resolve when a classpath entry
// names them; they are then opaque.
var jdkSpecs = []libSpec{
	// java.lang
	{"java.lang.Object", "", "equals(Object)boolean; hashCode()int; toString()String; getClass()java.lang.Class<?>; notify()void; notifyAll()void; wait()void throws InterruptedException; clone()Object throws CloneNotSupportedException"},
	{"interface java.lang.CharSequence", "", "length()int; charAt(int)char; toString()String; isEmpty()boolean"},
	{"interface java.lang.Comparable<T>", "", "compareTo(T)int"},
	{"interface java.lang.Iterable<T>", "", "iterator()java.util.Iterator<T>; forEach(java.util.function.Consumer<? super T>)void"},
	{"interface java.lang.Runnable", "", "run()void"},
	{"interface java.lang.AutoCloseable", "", "close()void throws Exception"},
	{"interface java.lang.Cloneable", "", ""},
	{"interface java.lang.Appendable", "", "append(CharSequence)Appendable throws java.io.IOException"},
	{"interface java.lang.Readable", "", ""},
	{"java.lang.String", "java.io.Serializable, Comparable<String>, CharSequence",
		"length()int; charAt(int)char; isEmpty()boolean; isBlank()boolean; substring(int)String; substring(int,int)String; " +
			"trim()String; strip()String; split(String)String[]; contains(CharSequence)boolean; startsWith(String)boolean; endsWith(String)boolean; " +
			"toUpperCase()String; toLowerCase()String; indexOf(String)int; indexOf(int)int; lastIndexOf(String)int; concat(String)String; " +
			"replace(CharSequence,CharSequence)String; equalsIgnoreCase(String)boolean; compareTo(String)int; toCharArray()char[]; getBytes()byte[]; " +
			"matches(String)boolean; repeat(int)String; intern()String; chars()java.util.stream.IntStream; lines()java.util.stream.Stream<String>; " +
			"static valueOf(Object)String; static valueOf(int)String; static valueOf(char)String; static valueOf(long)String; static valueOf(double)String; static valueOf(boolean)String; " +
			"static format(String,Object...)String; static join(CharSequence,CharSequence...)String; formatted(Object...)String"},
	{"java.lang.StringBuilder", "CharSequence, java.io.Serializable",
		"<init>(); <init>(String); <init>(int); append(Object)StringBuilder; append(String)StringBuilder; append(char)StringBuilder; append(int)StringBuilder; " +
			"append(long)StringBuilder; append(boolean)StringBuilder; append(double)StringBuilder; insert(int,String)StringBuilder; reverse()StringBuilder; " +
			"length()int; charAt(int)char; toString()String; setLength(int)void; deleteCharAt(int)StringBuilder"},
	{"java.lang.StringBuffer", "CharSequence, java.io.Serializable", "<init>(); <init>(String); append(Object)StringBuffer; append(String)StringBuffer; toString()String; length()int"},
	{"java.lang.Throwable", "java.io.Serializable",
		"<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable); getMessage()String; getLocalizedMessage()String; getCause()Throwable; " +
			"initCause(Throwable)Throwable; printStackTrace()void; addSuppressed(Throwable)void; getSuppressed()Throwable[]; getStackTrace()java.lang.StackTraceElement[]; fillInStackTrace()Throwable"},
	{"java.lang.StackTraceElement", "java.io.Serializable", "getMethodName()String; getClassName()String; getLineNumber()int"},
	{"java.lang.Exception", "Throwable", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.lang.Error", "Throwable", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.lang.RuntimeException", "Exception", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.lang.AssertionError", "Error", "<init>(); <init>(Object); <init>(String,Throwable)"},
	{"java.lang.LinkageError", "Error", "<init>(); <init>(String)"},
	{"java.lang.OutOfMemoryError", "Error", "<init>(); <init>(String)"},
	{"java.lang.StackOverflowError", "Error", "<init>(); <init>(String)"},
	{"java.lang.ExceptionInInitializerError", "LinkageError", "<init>(); <init>(String); <init>(Throwable)"},
	{"java.lang.IllegalArgumentException", "RuntimeException", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.lang.NumberFormatException", "IllegalArgumentException", "<init>(); <init>(String)"},
	{"java.lang.IllegalStateException", "RuntimeException", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.lang.NullPointerException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.UnsupportedOperationException", "RuntimeException", "<init>(); <init>(String); <init>(String,Throwable)"},
	{"java.lang.IndexOutOfBoundsException", "RuntimeException", "<init>(); <init>(String); <init>(int)"},
	{"java.lang.ArrayIndexOutOfBoundsException", "IndexOutOfBoundsException", "<init>(); <init>(String); <init>(int)"},
	{"java.lang.StringIndexOutOfBoundsException", "IndexOutOfBoundsException", "<init>(); <init>(String); <init>(int)"},
	{"java.lang.ArithmeticException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.ClassCastException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.NegativeArraySizeException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.ArrayStoreException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.SecurityException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.lang.InterruptedException", "Exception", "<init>(); <init>(String)"},
	{"java.lang.CloneNotSupportedException", "Exception", "<init>(); <init>(String)"},
	{"java.lang.ReflectiveOperationException", "Exception", "<init>(); <init>(String)"},
	{"java.lang.ClassNotFoundException", "ReflectiveOperationException", "<init>(); <init>(String)"},
	{"java.lang.Number", "java.io.Serializable", "intValue()int; longValue()long; doubleValue()double; floatValue()float; shortValue()short; byteValue()byte"},
	{"java.lang.Integer", "Number, Comparable<Integer>",
		"static parseInt(String)int throws NumberFormatException; static valueOf(int)Integer; static valueOf(String)Integer; static toString(int)String; " +
			"static compare(int,int)int; static max(int,int)int; static min(int,int)int; static sum(int,int)int; static toBinaryString(int)String; static toHexString(int)String; static bitCount(int)int; " +
			"intValue()int; compareTo(Integer)int; field MAX_VALUE:int; field MIN_VALUE:int"},
	{"java.lang.Long", "Number, Comparable<Long>", "static parseLong(String)long; static valueOf(long)Long; static toString(long)String; static compare(long,long)int; longValue()long; compareTo(Long)int; field MAX_VALUE:long; field MIN_VALUE:long"},
	{"java.lang.Double", "Number, Comparable<Double>", "static parseDouble(String)double; static valueOf(double)Double; static isNaN(double)boolean; static compare(double,double)int; doubleValue()double; isNaN()boolean; compareTo(Double)int; field MAX_VALUE:double; field MIN_VALUE:double; field NaN:double; field POSITIVE_INFINITY:double; field NEGATIVE_INFINITY:double"},
	{"java.lang.Float", "Number, Comparable<Float>", "static parseFloat(String)float; static valueOf(float)Float; floatValue()float; compareTo(Float)int; field MAX_VALUE:float; field MIN_VALUE:float"},
	{"java.lang.Short", "Number, Comparable<Short>", "static parseShort(String)short; static valueOf(short)Short; shortValue()short; field MAX_VALUE:short; field MIN_VALUE:short"},
	{"java.lang.Byte", "Number, Comparable<Byte>", "static parseByte(String)byte; static valueOf(byte)Byte; byteValue()byte; field MAX_VALUE:byte; field MIN_VALUE:byte"},
	{"java.lang.Character", "java.io.Serializable, Comparable<Character>", "static isDigit(char)boolean; static isLetter(char)boolean; static isWhitespace(char)boolean; static isUpperCase(char)boolean; static toUpperCase(char)char; static toLowerCase(char)char; static valueOf(char)Character; charValue()char; field MAX_VALUE:char; field MIN_VALUE:char"},
	{"java.lang.Boolean", "java.io.Serializable, Comparable<Boolean>", "static parseBoolean(String)boolean; static valueOf(boolean)Boolean; booleanValue()boolean; field TRUE:Boolean; field FALSE:Boolean"},
	{"java.lang.Void", "", ""},
	{"java.lang.Math", "", "static max(int,int)int; static max(long,long)long; static max(double,double)double; static min(int,int)int; static min(long,long)long; static min(double,double)double; static abs(int)int; static abs(long)long; static abs(double)double; static sqrt(double)double; static pow(double,double)double; static floor(double)double; static ceil(double)double; static round(double)long; static random()double; static floorMod(int,int)int; static addExact(int,int)int; field PI:double; field E:double"},
	{"java.lang.System", "", "static currentTimeMillis()long; static nanoTime()long; static arraycopy(Object,int,Object,int,int)void; static exit(int)void; static getProperty(String)String; static getenv(String)String; static lineSeparator()String; static identityHashCode(Object)int; static gc()void; field out:java.io.PrintStream; field err:java.io.PrintStream; field in:java.io.InputStream"},
	{"java.lang.Thread", "Runnable", "<init>(); <init>(Runnable); static sleep(long)void throws InterruptedException; static currentThread()Thread; start()void; run()void; join()void throws InterruptedException; interrupt()void; isInterrupted()boolean; getName()String; setDaemon(boolean)void"},
	{"java.lang.Enum<E>", "Comparable<E>, java.io.Serializable", "name()String; ordinal()int; compareTo(E)int; toString()String; getDeclaringClass()java.lang.Class<E>"},
	{"java.lang.Record", "", ""},
	{"java.lang.Class<T>", "java.io.Serializable", "getName()String; getSimpleName()String; isInstance(Object)boolean; cast(Object)T; getSuperclass()java.lang.Class<?>; isInterface()boolean; desiredAssertionStatus()boolean; static forName(String)java.lang.Class<?> throws ClassNotFoundException"},
	{"interface java.lang.annotation.Annotation", "", "annotationType()java.lang.Class<?>"},
	{"interface java.lang.Override", "java.lang.annotation.Annotation", ""},
	{"interface java.lang.Deprecated", "java.lang.annotation.Annotation", ""},
	{"interface java.lang.SuppressWarnings", "java.lang.annotation.Annotation", "value()String[]"},
	{"interface java.lang.FunctionalInterface", "java.lang.annotation.Annotation", ""},
	{"interface java.lang.SafeVarargs", "java.lang.annotation.Annotation", ""},
	{"interface java.lang.annotation.Retention", "java.lang.annotation.Annotation", "value()java.lang.annotation.RetentionPolicy"},
	{"interface java.lang.annotation.Target", "java.lang.annotation.Annotation", "value()java.lang.annotation.ElementType[]"},
	{"interface java.lang.annotation.Documented", "java.lang.annotation.Annotation", ""},
	{"interface java.lang.annotation.Inherited", "java.lang.annotation.Annotation", ""},
	{"java.lang.annotation.RetentionPolicy", "Enum<java.lang.annotation.RetentionPolicy>", "field SOURCE:java.lang.annotation.RetentionPolicy; field CLASS:java.lang.annotation.RetentionPolicy; field RUNTIME:java.lang.annotation.RetentionPolicy"},
	{"java.lang.annotation.ElementType", "Enum<java.lang.annotation.ElementType>", "field TYPE:java.lang.annotation.ElementType; field FIELD:java.lang.annotation.ElementType; field METHOD:java.lang.annotation.ElementType; field PARAMETER:java.lang.annotation.ElementType; field CONSTRUCTOR:java.lang.annotation.ElementType"},

	// java.io
	{"interface java.io.Serializable", "", ""},
	{"interface java.io.Closeable", "AutoCloseable", "close()void throws java.io.IOException"},
	{"interface java.io.Flushable", "", "flush()void throws java.io.IOException"},
	{"java.io.IOException", "Exception", "<init>(); <init>(String); <init>(String,Throwable); <init>(Throwable)"},
	{"java.io.FileNotFoundException", "java.io.IOException", "<init>(); <init>(String)"},
	{"java.io.EOFException", "java.io.IOException", "<init>(); <init>(String)"},
	{"java.io.UncheckedIOException", "RuntimeException", "<init>(String,java.io.IOException); <init>(java.io.IOException)"},
	{"java.io.InputStream", "java.io.Closeable", "read()int throws java.io.IOException; read(byte[])int throws java.io.IOException; close()void throws java.io.IOException; available()int throws java.io.IOException"},
	{"java.io.OutputStream", "java.io.Closeable, java.io.Flushable", "write(int)void throws java.io.IOException; write(byte[])void throws java.io.IOException; flush()void throws java.io.IOException; close()void throws java.io.IOException"},
	{"java.io.PrintStream", "java.io.OutputStream, Appendable",
		"<init>(java.io.OutputStream); println()void; println(Object)void; println(String)void; println(int)void; println(long)void; println(double)void; println(char)void; println(boolean)void; " +
			"print(Object)void; print(String)void; print(int)void; print(char)void; printf(String,Object...)java.io.PrintStream; format(String,Object...)java.io.PrintStream; flush()void; close()void"},
	{"java.io.Reader", "Readable, java.io.Closeable", "read()int throws java.io.IOException; close()void throws java.io.IOException"},
	{"java.io.Writer", "Appendable, java.io.Closeable, java.io.Flushable", "write(String)void throws java.io.IOException; flush()void throws java.io.IOException; close()void throws java.io.IOException"},
	{"java.io.BufferedReader", "java.io.Reader", "<init>(java.io.Reader); readLine()String throws java.io.IOException; lines()java.util.stream.Stream<String>"},
	{"java.io.InputStreamReader", "java.io.Reader", "<init>(java.io.InputStream)"},
	{"java.io.StringWriter", "java.io.Writer", "<init>(); toString()String"},
	{"java.io.PrintWriter", "java.io.Writer", "<init>(java.io.Writer); <init>(java.io.OutputStream); println(Object)void; println(String)void; print(String)void; printf(String,Object...)java.io.PrintWriter; flush()void; close()void"},
	{"java.io.ByteArrayOutputStream", "java.io.OutputStream", "<init>(); toByteArray()byte[]; toString()String; size()int"},
	{"java.io.ByteArrayInputStream", "java.io.InputStream", "<init>(byte[])"},
	{"java.io.File", "java.io.Serializable, Comparable<java.io.File>", "<init>(String); <init>(java.io.File,String); getName()String; getPath()String; exists()boolean; isDirectory()boolean; delete()boolean; mkdirs()boolean; listFiles()java.io.File[]; getAbsolutePath()String"},

	// java.util
	{"interface java.util.Iterator<E>", "", "hasNext()boolean; next()E; remove()void"},
	{"interface java.util.ListIterator<E>", "java.util.Iterator<E>", "hasPrevious()boolean; previous()E; add(E)void; set(E)void"},
	{"interface java.util.Collection<E>", "Iterable<E>",
		"size()int; isEmpty()boolean; contains(Object)boolean; add(E)boolean; remove(Object)boolean; addAll(java.util.Collection<? extends E>)boolean; " +
			"removeAll(java.util.Collection<?>)boolean; retainAll(java.util.Collection<?>)boolean; clear()void; toArray()Object[]; <T>toArray(T[])T[]; " +
			"stream()java.util.stream.Stream<E>; containsAll(java.util.Collection<?>)boolean; removeIf(java.util.function.Predicate<? super E>)boolean"},
	{"interface java.util.SequencedCollection<E>", "java.util.Collection<E>", "getFirst()E; getLast()E; addFirst(E)void; addLast(E)void; removeFirst()E; removeLast()E; reversed()java.util.SequencedCollection<E>"},
	{"interface java.util.List<E>", "java.util.SequencedCollection<E>",
		"get(int)E; set(int,E)E; add(int,E)void; remove(int)E; indexOf(Object)int; lastIndexOf(Object)int; subList(int,int)java.util.List<E>; " +
			"sort(java.util.Comparator<? super E>)void; listIterator()java.util.ListIterator<E>; replaceAll(java.util.function.UnaryOperator<E>)void; " +
			"static <T>of(T...)java.util.List<T>; static <T>copyOf(java.util.Collection<? extends T>)java.util.List<T>"},
	{"interface java.util.Set<E>", "java.util.Collection<E>", "static <T>of(T...)java.util.Set<T>; static <T>copyOf(java.util.Collection<? extends T>)java.util.Set<T>"},
	{"interface java.util.SortedSet<E>", "java.util.Set<E>, java.util.SequencedCollection<E>", "first()E; last()E"},
	{"interface java.util.NavigableSet<E>", "java.util.SortedSet<E>", "floor(E)E; ceiling(E)E; pollFirst()E; pollLast()E"},
	{"interface java.util.Queue<E>", "java.util.Collection<E>", "offer(E)boolean; poll()E; peek()E; element()E"},
	{"interface java.util.Deque<E>", "java.util.Queue<E>, java.util.SequencedCollection<E>", "push(E)void; pop()E; peekFirst()E; peekLast()E; pollFirst()E; pollLast()E; offerFirst(E)boolean; offerLast(E)boolean"},
	{"interface java.util.RandomAccess", "", ""},
	{"java.util.AbstractCollection<E>", "java.util.Collection<E>", ""},
	{"java.util.AbstractList<E>", "java.util.AbstractCollection<E>, java.util.List<E>", ""},
	{"java.util.ArrayList<E>", "java.util.AbstractList<E>, java.util.List<E>, java.util.RandomAccess, Cloneable, java.io.Serializable", "<init>(); <init>(int); <init>(java.util.Collection<? extends E>); ensureCapacity(int)void; trimToSize()void"},
	{"java.util.LinkedList<E>", "java.util.AbstractList<E>, java.util.List<E>, java.util.Deque<E>, Cloneable, java.io.Serializable", "<init>(); <init>(java.util.Collection<? extends E>)"},
	{"java.util.Vector<E>", "java.util.AbstractList<E>, java.util.List<E>, java.util.RandomAccess, Cloneable, java.io.Serializable", "<init>(); <init>(int)"},
	{"java.util.Stack<E>", "java.util.Vector<E>", "<init>(); push(E)E; pop()E; peek()E; empty()boolean"},
	{"java.util.AbstractSet<E>", "java.util.AbstractCollection<E>, java.util.Set<E>", ""},
	{"java.util.HashSet<E>", "java.util.AbstractSet<E>, java.util.Set<E>, Cloneable, java.io.Serializable", "<init>(); <init>(int); <init>(java.util.Collection<? extends E>)"},
	{"java.util.LinkedHashSet<E>", "java.util.HashSet<E>, java.util.SequencedCollection<E>", "<init>(); <init>(java.util.Collection<? extends E>)"},
	{"java.util.TreeSet<E>", "java.util.AbstractSet<E>, java.util.NavigableSet<E>, Cloneable, java.io.Serializable", "<init>(); <init>(java.util.Comparator<? super E>); <init>(java.util.Collection<? extends E>)"},
	{"java.util.ArrayDeque<E>", "java.util.AbstractCollection<E>, java.util.Deque<E>, Cloneable, java.io.Serializable", "<init>(); <init>(int)"},
	{"java.util.PriorityQueue<E>", "java.util.AbstractCollection<E>, java.util.Queue<E>, java.io.Serializable", "<init>(); <init>(java.util.Comparator<? super E>)"},
	{"interface java.util.Map<K,V>", "",
		"size()int; isEmpty()boolean; get(Object)V; put(K,V)V; remove(Object)V; containsKey(Object)boolean; containsValue(Object)boolean; " +
			"getOrDefault(Object,V)V; putIfAbsent(K,V)V; keySet()java.util.Set<K>; values()java.util.Collection<V>; entrySet()java.util.Set<java.util.Map.Entry<K,V>>; " +
			"clear()void; putAll(java.util.Map<? extends K,? extends V>)void; computeIfAbsent(K,java.util.function.Function<? super K,? extends V>)V; " +
			"merge(K,V,java.util.function.BiFunction<? super V,? super V,? extends V>)V; forEach(java.util.function.BiConsumer<? super K,? super V>)void; " +
			"static <A,B>of()java.util.Map<A,B>; static <A,B>of(A,B)java.util.Map<A,B>; static <A,B>of(A,B,A,B)java.util.Map<A,B>; static <A,B>entry(A,B)java.util.Map.Entry<A,B>"},
	{"interface java.util.Map.Entry<K,V>", "", "getKey()K; getValue()V; setValue(V)V"},
	{"interface java.util.SortedMap<K,V>", "java.util.Map<K,V>", "firstKey()K; lastKey()K"},
	{"interface java.util.NavigableMap<K,V>", "java.util.SortedMap<K,V>", "floorKey(K)K; ceilingKey(K)K; firstEntry()java.util.Map.Entry<K,V>"},
	{"java.util.AbstractMap<K,V>", "java.util.Map<K,V>", ""},
	{"java.util.HashMap<K,V>", "java.util.AbstractMap<K,V>, java.util.Map<K,V>, Cloneable, java.io.Serializable", "<init>(); <init>(int); <init>(java.util.Map<? extends K,? extends V>)"},
	{"java.util.LinkedHashMap<K,V>", "java.util.HashMap<K,V>", "<init>(); <init>(int)"},
	{"java.util.TreeMap<K,V>", "java.util.AbstractMap<K,V>, java.util.NavigableMap<K,V>, Cloneable, java.io.Serializable", "<init>(); <init>(java.util.Comparator<? super K>)"},
	{"java.util.IdentityHashMap<K,V>", "java.util.AbstractMap<K,V>, java.util.Map<K,V>", "<init>()"},
	{"java.util.WeakHashMap<K,V>", "java.util.AbstractMap<K,V>, java.util.Map<K,V>", "<init>()"},
	{"interface java.util.Comparator<T>", "", "compare(T,T)int; reversed()java.util.Comparator<T>; thenComparing(java.util.Comparator<? super T>)java.util.Comparator<T>; static <U>naturalOrder()java.util.Comparator<U>; static <U>reverseOrder()java.util.Comparator<U>"},
	{"java.util.Collections", "", "static <T>emptyList()java.util.List<T>; static <T>emptySet()java.util.Set<T>; static <K,V>emptyMap()java.util.Map<K,V>; static <T>singletonList(T)java.util.List<T>; static <T>singleton(T)java.util.Set<T>; static <T>unmodifiableList(java.util.List<? extends T>)java.util.List<T>; static <T>unmodifiableSet(java.util.Set<? extends T>)java.util.Set<T>; static <K,V>unmodifiableMap(java.util.Map<? extends K,? extends V>)java.util.Map<K,V>; static <T>sort(java.util.List<T>)void; static reverse(java.util.List<?>)void; static shuffle(java.util.List<?>)void; static <T>addAll(java.util.Collection<? super T>,T...)boolean; static <T>max(java.util.Collection<? extends T>)T; static <T>min(java.util.Collection<? extends T>)T"},
	{"java.util.Arrays", "", "static <T>asList(T...)java.util.List<T>; static toString(Object[])String; static toString(int[])String; static sort(int[])void; static sort(Object[])void; static fill(int[],int)void; static fill(Object[],Object)void; static equals(Object[],Object[])boolean; static hashCode(Object[])int; static <T>copyOf(T[],int)T[]; static copyOfRange(int[],int,int)int[]; static <T>stream(T[])java.util.stream.Stream<T>; static deepToString(Object[])String"},
	{"java.util.Objects", "", "static equals(Object,Object)boolean; static hash(Object...)int; static hashCode(Object)int; static toString(Object)String; static <T>requireNonNull(T)T; static <T>requireNonNull(T,String)T; static isNull(Object)boolean; static nonNull(Object)boolean; static <T>requireNonNullElse(T,T)T"},
	{"java.util.Optional<T>", "", "static <U>of(U)java.util.Optional<U>; static <U>ofNullable(U)java.util.Optional<U>; static <U>empty()java.util.Optional<U>; isPresent()boolean; isEmpty()boolean; get()T; orElse(T)T; orElseThrow()T; ifPresent(java.util.function.Consumer<? super T>)void; <U>map(java.util.function.Function<? super T,? extends U>)java.util.Optional<U>; filter(java.util.function.Predicate<? super T>)java.util.Optional<T>"},
	{"java.util.Random", "java.io.Serializable", "<init>(); <init>(long); nextInt()int; nextInt(int)int; nextLong()long; nextDouble()double; nextBoolean()boolean"},
	{"java.util.Scanner", "java.io.Closeable, java.util.Iterator<String>", "<init>(java.io.InputStream); <init>(String); nextLine()String; nextInt()int; hasNextLine()boolean; hasNextInt()boolean; close()void"},
	{"java.util.StringJoiner", "", "<init>(CharSequence); <init>(CharSequence,CharSequence,CharSequence); add(CharSequence)java.util.StringJoiner; toString()String"},
	{"java.util.UUID", "java.io.Serializable, Comparable<java.util.UUID>", "static randomUUID()java.util.UUID; toString()String"},
	{"java.util.BitSet", "Cloneable, java.io.Serializable", "<init>(); <init>(int); set(int)void; get(int)boolean; clear(int)void; cardinality()int"},
	{"java.util.NoSuchElementException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.util.ConcurrentModificationException", "RuntimeException", "<init>(); <init>(String)"},
	{"java.util.EmptyStackException", "RuntimeException", "<init>()"},
	{"java.util.concurrent.TimeUnit", "Enum<java.util.concurrent.TimeUnit>", "field SECONDS:java.util.concurrent.TimeUnit; field MILLISECONDS:java.util.concurrent.TimeUnit"},
	{"java.util.concurrent.ConcurrentHashMap<K,V>", "java.util.AbstractMap<K,V>, java.util.Map<K,V>", "<init>()"},
	{"java.util.concurrent.ExecutionException", "Exception", "<init>(String); <init>(Throwable)"},
	{"java.util.concurrent.TimeoutException", "Exception", "<init>(); <init>(String)"},
	{"java.util.concurrent.atomic.AtomicInteger", "Number", "<init>(); <init>(int); get()int; set(int)void; incrementAndGet()int; getAndIncrement()int; decrementAndGet()int; addAndGet(int)int"},
	{"java.util.concurrent.atomic.AtomicLong", "Number", "<init>(); <init>(long); get()long; incrementAndGet()long"},
	{"java.util.concurrent.atomic.AtomicBoolean", "java.io.Serializable", "<init>(); <init>(boolean); get()boolean; set(boolean)void; compareAndSet(boolean,boolean)boolean"},
	{"java.util.concurrent.atomic.AtomicReference<V>", "java.io.Serializable", "<init>(); <init>(V); get()V; set(V)void"},
	{"interface java.util.concurrent.Callable<V>", "", "call()V throws Exception"},

	// java.util.function
	{"interface java.util.function.Function<T,R>", "", "apply(T)R; <V>andThen(java.util.function.Function<? super R,? extends V>)java.util.function.Function<T,V>; static <U>identity()java.util.function.Function<U,U>"},
	{"interface java.util.function.BiFunction<T,U,R>", "", "apply(T,U)R"},
	{"interface java.util.function.UnaryOperator<T>", "java.util.function.Function<T,T>", ""},
	{"interface java.util.function.BinaryOperator<T>", "java.util.function.BiFunction<T,T,T>", ""},
	{"interface java.util.function.Supplier<T>", "", "get()T"},
	{"interface java.util.function.Consumer<T>", "", "accept(T)void"},
	{"interface java.util.function.BiConsumer<T,U>", "", "accept(T,U)void"},
	{"interface java.util.function.Predicate<T>", "", "test(T)boolean; negate()java.util.function.Predicate<T>; and(java.util.function.Predicate<? super T>)java.util.function.Predicate<T>; or(java.util.function.Predicate<? super T>)java.util.function.Predicate<T>"},
	{"interface java.util.function.BiPredicate<T,U>", "", "test(T,U)boolean"},
	{"interface java.util.function.IntFunction<R>", "", "apply(int)R"},
	{"interface java.util.function.IntPredicate", "", "test(int)boolean"},
	{"interface java.util.function.IntUnaryOperator", "", "applyAsInt(int)int"},
	{"interface java.util.function.IntBinaryOperator", "", "applyAsInt(int,int)int"},
	{"interface java.util.function.ToIntFunction<T>", "", "applyAsInt(T)int"},
	{"interface java.util.function.IntSupplier", "", "getAsInt()int"},
	{"interface java.util.function.BooleanSupplier", "", "getAsBoolean()boolean"},

	// java.util.stream
	{"interface java.util.stream.BaseStream<T,S>", "AutoCloseable", "close()void; iterator()java.util.Iterator<T>"},
	{"interface java.util.stream.Stream<T>", "java.util.stream.BaseStream<T,java.util.stream.Stream<T>>",
		"filter(java.util.function.Predicate<? super T>)java.util.stream.Stream<T>; <R>map(java.util.function.Function<? super T,? extends R>)java.util.stream.Stream<R>; " +
			"mapToInt(java.util.function.ToIntFunction<? super T>)java.util.stream.IntStream; forEach(java.util.function.Consumer<? super T>)void; count()long; " +
			"<R,A>collect(java.util.stream.Collector<? super T,A,R>)R; toList()java.util.List<T>; sorted()java.util.stream.Stream<T>; distinct()java.util.stream.Stream<T>; " +
			"limit(long)java.util.stream.Stream<T>; findFirst()java.util.Optional<T>; anyMatch(java.util.function.Predicate<? super T>)boolean; allMatch(java.util.function.Predicate<? super T>)boolean; " +
			"static <U>of(U...)java.util.stream.Stream<U>; static <U>empty()java.util.stream.Stream<U>"},
	{"interface java.util.stream.IntStream", "java.util.stream.BaseStream<Integer,java.util.stream.IntStream>", "sum()int; count()long; boxed()java.util.stream.Stream<Integer>; toArray()int[]; static range(int,int)java.util.stream.IntStream; static rangeClosed(int,int)java.util.stream.IntStream; static of(int...)java.util.stream.IntStream"},
	{"interface java.util.stream.Collector<T,A,R>", "", ""},
	{"java.util.stream.Collectors", "", "static <T>toList()java.util.stream.Collector<T,?,java.util.List<T>>; static <T>toSet()java.util.stream.Collector<T,?,java.util.Set<T>>; static joining()java.util.stream.Collector<CharSequence,?,String>; static joining(CharSequence)java.util.stream.Collector<CharSequence,?,String>"},

	// java.util.regex, java.nio, java.math, java.text
	{"java.util.regex.Pattern", "java.io.Serializable", "static compile(String)java.util.regex.Pattern; matcher(CharSequence)java.util.regex.Matcher; static matches(String,CharSequence)boolean; pattern()String"},
	{"java.util.regex.Matcher", "", "matches()boolean; find()boolean; group()String; group(int)String; start()int; end()int"},
	{"java.math.BigInteger", "Number, Comparable<java.math.BigInteger>", "<init>(String); static valueOf(long)java.math.BigInteger; add(java.math.BigInteger)java.math.BigInteger; multiply(java.math.BigInteger)java.math.BigInteger; subtract(java.math.BigInteger)java.math.BigInteger; compareTo(java.math.BigInteger)int; field ZERO:java.math.BigInteger; field ONE:java.math.BigInteger; field TEN:java.math.BigInteger"},
	{"java.math.BigDecimal", "Number, Comparable<java.math.BigDecimal>", "<init>(String); <init>(double); static valueOf(double)java.math.BigDecimal; add(java.math.BigDecimal)java.math.BigDecimal; compareTo(java.math.BigDecimal)int; field ZERO:java.math.BigDecimal"},
	{"interface java.nio.file.Path", "Comparable<java.nio.file.Path>, Iterable<java.nio.file.Path>", "resolve(String)java.nio.file.Path; getFileName()java.nio.file.Path; toFile()java.io.File; static of(String,String...)java.nio.file.Path"},
	{"java.nio.file.Paths", "", "static get(String,String...)java.nio.file.Path"},
	{"java.nio.file.Files", "", "static readString(java.nio.file.Path)String throws java.io.IOException; static exists(java.nio.file.Path,java.nio.file.LinkOption...)boolean; static readAllLines(java.nio.file.Path)java.util.List<String> throws java.io.IOException; static writeString(java.nio.file.Path,CharSequence,java.nio.file.OpenOption...)java.nio.file.Path throws java.io.IOException; static createDirectories(java.nio.file.Path,java.nio.file.attribute.FileAttribute<?>...)java.nio.file.Path throws java.io.IOException; static delete(java.nio.file.Path)void throws java.io.IOException"},
	{"interface java.nio.file.OpenOption", "", ""},
	{"interface java.nio.file.LinkOption", "java.nio.file.OpenOption", ""},
	{"interface java.nio.file.attribute.FileAttribute<T>", "", "name()String; value()T"},
	{"java.nio.charset.StandardCharsets", "", "field UTF_8:java.nio.charset.Charset; field US_ASCII:java.nio.charset.Charset"},
	{"java.nio.charset.Charset", "Comparable<java.nio.charset.Charset>", "name()String"},
	{"java.text.SimpleDateFormat", "", "<init>(String); format(Object)String"},

	// JUnit 4 and 5
	{"interface org.junit.Test", "java.lang.annotation.Annotation", "expected()java.lang.Class<?>; timeout()long"},
	{"interface org.junit.Before", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.After", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.BeforeClass", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.AfterClass", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.Ignore", "java.lang.annotation.Annotation", "value()String"},
	{"interface org.junit.Rule", "java.lang.annotation.Annotation", ""},
	{"org.junit.Assert", "",
		"static assertEquals(Object,Object)void; static assertEquals(String,Object,Object)void; static assertEquals(long,long)void; static assertEquals(String,long,long)void; " +
			"static assertEquals(double,double,double)void; static assertEquals(String,double,double,double)void; static assertNotEquals(Object,Object)void; " +
			"static assertTrue(boolean)void; static assertTrue(String,boolean)void; static assertFalse(boolean)void; static assertFalse(String,boolean)void; " +
			"static assertNull(Object)void; static assertNull(String,Object)void; static assertNotNull(Object)void; static assertNotNull(String,Object)void; " +
			"static assertSame(Object,Object)void; static assertNotSame(Object,Object)void; static assertArrayEquals(Object[],Object[])void; static assertArrayEquals(int[],int[])void; " +
			"static fail()void; static fail(String)void"},
	{"org.junit.Assume", "", "static assumeTrue(boolean)void; static assumeFalse(boolean)void"},
	{"interface org.junit.jupiter.api.Test", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.jupiter.api.BeforeEach", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.jupiter.api.AfterEach", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.jupiter.api.BeforeAll", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.jupiter.api.AfterAll", "java.lang.annotation.Annotation", ""},
	{"interface org.junit.jupiter.api.Disabled", "java.lang.annotation.Annotation", "value()String"},
	{"interface org.junit.jupiter.api.DisplayName", "java.lang.annotation.Annotation", "value()String"},
	{"interface org.junit.jupiter.api.function.Executable", "", "execute()void throws Throwable"},
	{"org.junit.jupiter.api.Assertions", "",
		"static assertEquals(Object,Object)void; static assertEquals(Object,Object,String)void; static assertEquals(long,long)void; static assertEquals(double,double)void; " +
			"static assertNotEquals(Object,Object)void; static assertTrue(boolean)void; static assertTrue(boolean,String)void; static assertFalse(boolean)void; static assertFalse(boolean,String)void; " +
			"static assertNull(Object)void; static assertNotNull(Object)void; static assertSame(Object,Object)void; static assertArrayEquals(Object[],Object[])void; " +
			"static <T>assertThrows(java.lang.Class<T>,org.junit.jupiter.api.function.Executable)T; static assertDoesNotThrow(org.junit.jupiter.api.function.Executable)void; static <V>fail()V; static <V>fail(String)V"},
}

var (
	jdkOnce sync.Once
	jdkLib  *Library
	jdkErr  error
)

// JDK returns a fresh library holding the built-in platform model.
func JDK() (*Library, error) {
	jdkOnce.Do(func() {
		jdkLib, jdkErr = buildLibrary(jdkSpecs)
	})
	if jdkErr != nil {
		return nil, jdkErr
	}
	l := NewLibrary()
	for name, t := range jdkLib.types {
		l.types[name] = t
	}
	for pkg := range jdkLib.packages {
		l.packages[pkg] = true
	}
	return l, nil
}
